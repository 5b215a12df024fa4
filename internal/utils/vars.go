package utils

import "errors"

const (
	DefaultThreads = 4
	DefaultRetries = 5
	ToolName       = "m3uget"
	YtdlpBinary    = "yt-dlp"
	OutputExt      = ".mp4"
)

// Fatal configuration errors, surfaced before any job runs.
var (
	ErrInvalidWorkers = errors.New("worker count must be at least 1")
	ErrInvalidMode    = errors.New("naming mode must be one of auto, base, full")
	ErrInvalidRetries = errors.New("retries must not be negative")
	ErrInvalidRate    = errors.New("invalid rate limit")
	ErrConfigFile     = errors.New("cannot load config file")
)

// ErrSourceAccess means the source exists but could not be read.
var ErrSourceAccess = errors.New("cannot read source")
