// Package naming derives output filename stems from stream URLs.
package naming

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/tanq16/m3uget/internal/utils"
)

type Mode int

const (
	ModeAuto Mode = iota
	ModeBase
	ModeFull
)

const (
	baseStemLength = 16
	fallbackStem   = "video"
	autoPrefix     = "video_"
)

var episodeRegex = regexp.MustCompile(`(?i)s\d{2}e\d{2}`)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeBase:
		return "base"
	case ModeFull:
		return "full"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ModeAuto, nil
	case "base":
		return ModeBase, nil
	case "full":
		return ModeFull, nil
	}
	return ModeAuto, fmt.Errorf("%w: got %q", utils.ErrInvalidMode, s)
}

// Generator maps URLs to stems for one run. It is safe for concurrent use.
type Generator struct {
	mode Mode
	now  func() time.Time

	mu   sync.Mutex
	last int64
}

type Option func(*Generator)

// WithClock replaces the wall clock used by the Auto fallback.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(mode Mode, opts ...Option) *Generator {
	g := &Generator{mode: mode, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Generate(rawURL string) string {
	switch g.mode {
	case ModeBase:
		return baseStem(rawURL)
	case ModeFull:
		return fullStem(rawURL)
	default:
		return g.autoStem(rawURL)
	}
}

func (g *Generator) autoStem(rawURL string) string {
	if match := episodeRegex.FindString(rawURL); match != "" {
		return strings.ToLower(match)
	}
	return fmt.Sprintf("%s%d", autoPrefix, g.nextStamp())
}

// nextStamp never hands out the same value twice, even if the clock stalls.
func (g *Generator) nextStamp() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	ts := g.now().UnixNano()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	return ts
}

func baseStem(rawURL string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(rawURL))
	if len(encoded) > baseStemLength {
		return encoded[:baseStemLength]
	}
	return encoded
}

func fullStem(rawURL string) string {
	segments := pathSegments(rawURL)
	if len(segments) < 2 {
		return fallbackStem
	}
	stem := segments[len(segments)-2]
	if stem == "" {
		return fallbackStem
	}
	return stem
}

func pathSegments(rawURL string) []string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return strings.Split(rawURL, "/")
	}
	return strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/")
}
