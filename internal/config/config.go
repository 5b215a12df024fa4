package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/m3uget/internal/utils"
)

// Config holds run settings. Values come from built-in defaults, then the
// TOML file, then explicitly set flags.
type Config struct {
	Threads   int    `toml:"threads"`
	Mode      string `toml:"mode"`
	Quiet     bool   `toml:"quiet"`
	Limit     string `toml:"limit"`
	Proxy     string `toml:"proxy"`
	Retries   int    `toml:"retries"`
	Timeout   string `toml:"timeout"`
	YtdlpPath string `toml:"yt-dlp"`
	Debug     bool   `toml:"debug"`
}

func Default() Config {
	return Config{
		Threads: utils.DefaultThreads,
		Mode:    "auto",
		Retries: utils.DefaultRetries,
	}
}

// DefaultPath returns the config file location using XDG_CONFIG_HOME.
func DefaultPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, utils.ToolName, "config.toml")
}

// Load reads path over the defaults. A missing file is fine unless the
// caller named it explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			log.Debug().Str("op", "config/load").Msgf("No config file at %s", path)
			return Default(), nil
		}
		return Default(), fmt.Errorf("%w %s: %v", utils.ErrConfigFile, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Warn().Str("op", "config/load").Msgf("Ignoring unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	log.Debug().Str("op", "config/load").Msgf("Loaded config from %s", path)
	return cfg, nil
}

// JobTimeout parses Timeout; empty means no limit.
func (c Config) JobTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %v", utils.ErrConfigFile, c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: timeout %q is negative", utils.ErrConfigFile, c.Timeout)
	}
	return d, nil
}

// Validate reports the first invalid run-wide setting.
func (c Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("%w: got %d", utils.ErrInvalidWorkers, c.Threads)
	}
	if _, err := c.JobTimeout(); err != nil {
		return err
	}
	return c.JobOptions().Validate()
}

func (c Config) JobOptions() utils.JobOptions {
	return utils.JobOptions{
		Quiet:     c.Quiet,
		Retries:   c.Retries,
		RateLimit: c.Limit,
		Proxy:     c.Proxy,
	}
}
