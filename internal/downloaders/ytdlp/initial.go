package ytdlp

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/m3uget/internal/utils"
)

// EnsureYtdlp picks the yt-dlp binary. When nothing is found the bare name
// is returned so every job reports its own launch error.
func EnsureYtdlp(override string) string {
	if override != "" {
		log.Debug().Str("op", "ytdlp/initial").Msgf("Using yt-dlp override %s", override)
		return override
	}
	path, err := exec.LookPath(utils.YtdlpBinary)
	if err == nil {
		return path
	}
	execPath, err := os.Executable()
	if err == nil {
		ytdlpPath := filepath.Join(filepath.Dir(execPath), utils.YtdlpBinary)
		if runtime.GOOS == "windows" {
			ytdlpPath += ".exe"
		}
		if _, err := os.Stat(ytdlpPath); err == nil {
			return ytdlpPath
		}
	}
	log.Warn().Str("op", "ytdlp/initial").Msg("yt-dlp not found in PATH or next to the executable")
	return utils.YtdlpBinary
}

// BuildArgs returns the yt-dlp argument vector for a job. The order and
// spelling are part of the contract with yt-dlp's CLI.
func BuildArgs(job utils.JobSpec) []string {
	retries := strconv.Itoa(job.Retries)
	args := []string{
		job.URL,
		"--downloader", "ffmpeg",
		"--hls-use-mpegts",
		"--retries", retries,
		"--fragment-retries", retries,
		"-o", job.Filename + utils.OutputExt,
		"-c",
	}
	if job.Quiet {
		args = append(args, "-q")
	}
	if job.RateLimit != "" {
		args = append(args, "--limit-rate", job.RateLimit)
	}
	if job.Proxy != "" {
		args = append(args, "--proxy", job.Proxy)
	}
	return args
}
