package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tanq16/m3uget/internal/utils"
)

// Invoker runs one job to completion. It reports failures in the outcome
// rather than as an error.
type Invoker interface {
	Invoke(ctx context.Context, job utils.JobSpec) utils.JobOutcome
}

// Reporter receives per-job progress. Calls come from worker goroutines.
type Reporter interface {
	JobStarted(job utils.JobSpec)
	JobFinished(outcome utils.JobOutcome)
}

type Scheduler struct {
	invoker  Invoker
	reporter Reporter
	timeout  time.Duration
}

type Option func(*Scheduler)

// WithJobTimeout bounds every invocation. Zero means no limit.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

// WithReporter sets where start/finish events go.
func WithReporter(r Reporter) Option {
	return func(s *Scheduler) {
		s.reporter = r
	}
}

func New(invoker Invoker, opts ...Option) *Scheduler {
	s := &Scheduler{invoker: invoker, reporter: nopReporter{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes jobs on numWorkers workers and returns one outcome per job in
// completion order. A failed job never stops the others.
func (s *Scheduler) Run(ctx context.Context, jobs []utils.JobSpec, numWorkers int) ([]utils.JobOutcome, error) {
	if numWorkers < 1 {
		return nil, fmt.Errorf("%w: got %d", utils.ErrInvalidWorkers, numWorkers)
	}
	logger := utils.GetLogger("scheduler")
	logger.Debug().Str("op", "scheduler/run").Msgf("Starting %d jobs on %d workers", len(jobs), numWorkers)

	jobCh := make(chan utils.JobSpec, len(jobs))
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	outcomeCh := make(chan utils.JobOutcome, len(jobs))
	var wg sync.WaitGroup
	for i := 0; i < min(numWorkers, len(jobs)); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.processJobs(ctx, workerID, jobCh, outcomeCh)
		}(i)
	}
	wg.Wait()
	close(outcomeCh)

	outcomes := make([]utils.JobOutcome, 0, len(jobs))
	for outcome := range outcomeCh {
		outcomes = append(outcomes, outcome)
	}
	logger.Debug().Str("op", "scheduler/run").Msgf("All %d jobs finished", len(outcomes))
	return outcomes, nil
}

func (s *Scheduler) processJobs(ctx context.Context, workerID int, jobCh <-chan utils.JobSpec, outcomeCh chan<- utils.JobOutcome) {
	logger := utils.GetLogger("scheduler").With().Int("worker", workerID).Logger()
	for job := range jobCh {
		if err := ctx.Err(); err != nil {
			logger.Debug().Str("op", "scheduler/worker").Str("job", job.ID).Msg("Run cancelled, not starting job")
			outcome := utils.JobOutcome{
				Job:      job,
				Filename: job.Filename,
				Result:   utils.ResultLaunchError,
				Err:      fmt.Errorf("not started: %w", err),
			}
			s.reporter.JobFinished(outcome)
			outcomeCh <- outcome
			continue
		}
		logger.Debug().Str("op", "scheduler/worker").Str("job", job.ID).Msgf("Picked up %s", job.URL)
		s.reporter.JobStarted(job)
		outcome := s.invoke(ctx, job)
		s.reporter.JobFinished(outcome)
		outcomeCh <- outcome
	}
}

func (s *Scheduler) invoke(ctx context.Context, job utils.JobSpec) utils.JobOutcome {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.invoker.Invoke(ctx, job)
}

type nopReporter struct{}

func (nopReporter) JobStarted(utils.JobSpec)     {}
func (nopReporter) JobFinished(utils.JobOutcome) {}
