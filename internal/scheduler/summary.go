package scheduler

import "github.com/tanq16/m3uget/internal/utils"

type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

func Summarize(outcomes []utils.JobOutcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// Failed reports whether any outcome is not a success.
func Failed(outcomes []utils.JobOutcome) bool {
	return Summarize(outcomes).Failed > 0
}
