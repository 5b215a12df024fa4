package utils

import (
	"fmt"
	"time"
)

// JobSpec is everything needed to run one yt-dlp invocation. It is built
// once per URL and passed by value, so a worker owns its copy.
type JobSpec struct {
	ID        string
	URL       string
	Filename  string
	Quiet     bool
	Retries   int
	RateLimit string
	Proxy     string
}

// JobOptions are the run-wide settings copied into every JobSpec.
type JobOptions struct {
	Quiet     bool
	Retries   int
	RateLimit string
	Proxy     string
}

type Result int

const (
	ResultSuccess Result = iota
	ResultProcessFailure
	ResultLaunchError
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultProcessFailure:
		return "process-failure"
	case ResultLaunchError:
		return "launch-error"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// JobOutcome is the terminal result of one JobSpec. ExitCode is only
// meaningful for ResultProcessFailure and is -1 when the child was killed.
type JobOutcome struct {
	Job      JobSpec
	Filename string
	Result   Result
	ExitCode int
	Err      error
	Duration time.Duration
}

func (o JobOutcome) Succeeded() bool {
	return o.Result == ResultSuccess
}
