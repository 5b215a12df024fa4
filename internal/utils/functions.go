package utils

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseRate checks a yt-dlp style rate limit such as "5M" or "800K" and
// returns it in bytes per second. The original string is what gets passed on.
func ParseRate(rate string) (uint64, error) {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidRate)
	}
	bps, err := humanize.ParseBytes(rate)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidRate, rate, err)
	}
	if bps == 0 {
		return 0, fmt.Errorf("%w %q: must be greater than zero", ErrInvalidRate, rate)
	}
	return bps, nil
}

func FormatRate(bps uint64) string {
	return humanize.IBytes(bps) + "/s"
}

func (o JobOptions) Validate() error {
	if o.Retries < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRetries, o.Retries)
	}
	if o.RateLimit != "" {
		if _, err := ParseRate(o.RateLimit); err != nil {
			return err
		}
	}
	return nil
}
