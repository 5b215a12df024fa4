package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/m3uget/internal/utils"
)

// killGrace is how long a cancelled child gets between SIGTERM and SIGKILL.
const killGrace = 5 * time.Second

// Runner executes yt-dlp for one job at a time per caller. Stdout and
// Stderr default to the parent's streams and are not buffered.
type Runner struct {
	Path   string
	Stdout io.Writer
	Stderr io.Writer
}

func NewRunner(path string) *Runner {
	return &Runner{
		Path:   path,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Invoke runs the child to completion and classifies how it ended. It never
// retries; yt-dlp handles retries through --retries/--fragment-retries.
func (r *Runner) Invoke(ctx context.Context, job utils.JobSpec) utils.JobOutcome {
	outcome := utils.JobOutcome{Job: job, Filename: job.Filename}
	start := time.Now()

	cmd := exec.CommandContext(ctx, r.Path, BuildArgs(job)...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	setProcessGroup(cmd)
	log.Debug().Str("op", "ytdlp/download").Str("job", job.ID).Msgf("Executing yt-dlp command: %s", cmd.String())

	if err := cmd.Start(); err != nil {
		log.Error().Str("op", "ytdlp/download").Str("job", job.ID).Err(err).Msg("Error starting yt-dlp")
		outcome.Result = utils.ResultLaunchError
		outcome.Err = fmt.Errorf("error starting yt-dlp: %w", err)
		outcome.Duration = time.Since(start)
		return outcome
	}

	err := cmd.Wait()
	outcome.Duration = time.Since(start)
	if ctx.Err() != nil {
		killGroup(cmd)
	}
	if err == nil {
		outcome.Result = utils.ResultSuccess
		log.Debug().Str("op", "ytdlp/download").Str("job", job.ID).Msgf("yt-dlp download completed for %s", job.URL)
		return outcome
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.Result = utils.ResultProcessFailure
		outcome.ExitCode = exitErr.ExitCode()
		outcome.Err = fmt.Errorf("yt-dlp failed: %w", err)
		log.Error().Str("op", "ytdlp/download").Str("job", job.ID).Int("exit", outcome.ExitCode).Msg("yt-dlp command failed")
		return outcome
	}
	// Wait can fail without an exit status, e.g. when copying to a non-file writer breaks.
	outcome.Result = utils.ResultLaunchError
	outcome.Err = fmt.Errorf("error waiting for yt-dlp: %w", err)
	log.Error().Str("op", "ytdlp/download").Str("job", job.ID).Err(err).Msg("Error waiting for yt-dlp")
	return outcome
}
