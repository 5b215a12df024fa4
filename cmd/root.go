package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tanq16/m3uget/internal/config"
	"github.com/tanq16/m3uget/internal/downloaders/ytdlp"
	"github.com/tanq16/m3uget/internal/naming"
	"github.com/tanq16/m3uget/internal/output"
	"github.com/tanq16/m3uget/internal/scheduler"
	"github.com/tanq16/m3uget/internal/source"
	"github.com/tanq16/m3uget/internal/utils"
)

var M3ugetVersion = "dev"

type rootOptions struct {
	threads    int
	mode       string
	quiet      bool
	limit      string
	proxy      string
	retries    int
	timeout    time.Duration
	ytdlpPath  string
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	cmd, _ := newRootCmdWithOptions()
	return cmd
}

func newRootCmdWithOptions() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:     "m3uget SOURCE [OPTIONS]",
		Short:   "Fast parallel .m3u8 downloader using yt-dlp",
		Long:    "SOURCE is a single m3u8 URL, a text file with one URL per line (blank lines and # comments are skipped),\na YAML list file, or an s3://bucket/key object holding such a list.",
		Version: M3ugetVersion,
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			utils.InitLogger(opts.debug)
			cfg, err := resolveConfig(cmd.Flags(), opts)
			if err != nil {
				output.PrintError(fmt.Sprintf("Invalid configuration: %v", err))
				os.Exit(1)
			}
			os.Exit(run(cmd.Context(), cfg, args[0], nil))
		},
	}

	cmd.Flags().IntVarP(&opts.threads, "threads", "t", utils.DefaultThreads, "Number of parallel downloads")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "auto", "Naming mode: auto | base | full")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress yt-dlp output")

	// flags without shorthand
	cmd.Flags().StringVar(&opts.limit, "limit", "", "Limit download speed, e.g. 5M or 800K")
	cmd.Flags().StringVar(&opts.proxy, "proxy", "", "Proxy for yt-dlp, e.g. socks5://127.0.0.1:9050")
	cmd.Flags().IntVar(&opts.retries, "retries", utils.DefaultRetries, "Number of retry attempts")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-download timeout (eg. 30m, 2h); 0 disables it")
	cmd.Flags().StringVar(&opts.ytdlpPath, "yt-dlp", "", "Path to the yt-dlp binary (default: search PATH)")
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to a TOML file with default options")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	return cmd, opts
}

// resolveConfig layers explicitly set flags over the config file and checks
// the result. Errors here are fatal before any job starts.
func resolveConfig(flags *pflag.FlagSet, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath, flags.Changed("config"))
	if err != nil {
		return cfg, err
	}
	if flags.Changed("threads") {
		cfg.Threads = opts.threads
	}
	if flags.Changed("mode") {
		cfg.Mode = opts.mode
	}
	if flags.Changed("quiet") {
		cfg.Quiet = opts.quiet
	}
	if flags.Changed("limit") {
		cfg.Limit = opts.limit
	}
	if flags.Changed("proxy") {
		cfg.Proxy = opts.proxy
	}
	if flags.Changed("retries") {
		cfg.Retries = opts.retries
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout.String()
	}
	if flags.Changed("yt-dlp") {
		cfg.YtdlpPath = opts.ytdlpPath
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if cfg.Debug && !opts.debug {
		utils.InitLogger(true)
	}
	if _, err := naming.ParseMode(cfg.Mode); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// run dispatches every URL in src and returns the process exit code. invoker
// may be nil to run the real yt-dlp.
func run(ctx context.Context, cfg config.Config, src string, invoker scheduler.Invoker) int {
	mode, err := naming.ParseMode(cfg.Mode)
	if err != nil {
		output.PrintError(fmt.Sprintf("Invalid configuration: %v", err))
		return 1
	}
	timeout, err := cfg.JobTimeout()
	if err != nil {
		output.PrintError(fmt.Sprintf("Invalid configuration: %v", err))
		return 1
	}

	urls, err := source.Load(ctx, src)
	if err != nil {
		output.PrintError(fmt.Sprintf("Failed to read source: %v", err))
		return 1
	}
	gen := naming.NewGenerator(mode)
	jobs := utils.BuildJobs(urls, gen.Generate, cfg.JobOptions())
	output.PrintStartup(len(jobs), cfg.Threads)
	log.Debug().Str("op", "cmd/root").Strs("settings", startupDetails(cfg, mode, timeout)).Msg("Run settings")
	if len(jobs) == 0 {
		output.PrintWarning("No URLs found in source")
		return 0
	}

	if invoker == nil {
		invoker = ytdlp.NewRunner(ytdlp.EnsureYtdlp(cfg.YtdlpPath))
	}
	mgr := output.NewManager()
	sched := scheduler.New(invoker, scheduler.WithReporter(mgr), scheduler.WithJobTimeout(timeout))
	log.Debug().Str("op", "cmd/root").Msgf("Starting scheduler with %d jobs", len(jobs))
	outcomes, err := sched.Run(ctx, jobs, cfg.Threads)
	if err != nil {
		output.PrintError(fmt.Sprintf("Failed to start downloads: %v", err))
		return 1
	}
	mgr.ShowSummary()
	if scheduler.Failed(outcomes) {
		output.PrintError("Encountered failed operation(s)")
		return 1
	}
	output.PrintSuccess("All downloads completed")
	return 0
}

func startupDetails(cfg config.Config, mode naming.Mode, timeout time.Duration) []string {
	details := []string{fmt.Sprintf("Mode: %s", mode), fmt.Sprintf("Retries: %d", cfg.Retries)}
	if cfg.Limit != "" {
		if bps, err := utils.ParseRate(cfg.Limit); err == nil {
			details = append(details, fmt.Sprintf("Limit: %s (%s)", cfg.Limit, utils.FormatRate(bps)))
		}
	}
	if cfg.Proxy != "" {
		details = append(details, "Proxy: "+cfg.Proxy)
	}
	if timeout > 0 {
		details = append(details, "Timeout: "+timeout.String())
	}
	return details
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
