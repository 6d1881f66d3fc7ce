package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/soundforge/flacpress/internal/batch"
	"github.com/soundforge/flacpress/internal/config"
	"github.com/soundforge/flacpress/internal/convert"
	"github.com/soundforge/flacpress/internal/platform"
	"github.com/soundforge/flacpress/internal/validate"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const appName = "flacpress"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath    = flag.String("config", "", "path to a YAML config file")
		outputDir     = flag.String("out", "", "directory converted files are written to")
		jobs          = flag.Int("jobs", 0, "conversions to run in parallel")
		simulate      = flag.Bool("simulate", false, "use the simulated encoder instead of ffmpeg")
		deterministic = flag.Bool("deterministic", false, "fixed progress steps in the simulated encoder")
		verbose       = flag.Bool("verbose", false, "enable debug logging")
		showVersion   = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", appName, version)
		return 0
	}

	paths := flag.Args()
	if len(paths) == 0 {
		usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	// Flags override the config file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.Dir = *outputDir
		case "jobs":
			cfg.Engine.Jobs = *jobs
		case "simulate":
			cfg.Engine.Simulate = *simulate
		case "deterministic":
			cfg.Engine.Deterministic = *deterministic
		case "verbose":
			if *verbose {
				cfg.Log.Level = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	logger := newLogger(cfg.Log.Level)
	logger.Info("starting",
		slog.String("version", version),
		slog.Int("jobs", cfg.Engine.Jobs),
		slog.Bool("simulate", cfg.Engine.Simulate))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	candidates, err := platform.Scan(paths)
	if err != nil {
		logger.Error("scan failed", slog.String("error", err.Error()))
		return 1
	}

	gate := validate.NewGate(cfg.Gate.MaxFileSize, cfg.Gate.Types)
	admitted, rejected := gate.Admit(candidates, nil)
	for _, r := range rejected {
		logger.Warn("rejected",
			slog.String("file", r.File.Name),
			slog.String("reason", string(r.Reason)),
			slog.String("detail", r.Message))
	}
	if len(admitted) == 0 {
		logger.Error("no convertible files", slog.Int("candidates", len(candidates)))
		return 1
	}

	op, err := buildOperation(cfg)
	if err != nil {
		logger.Error("setup failed", slog.String("error", err.Error()))
		return 1
	}

	b := batch.New(admitted, cfg.TargetProfile())
	agg := batch.NewAggregator(b.Size())
	sched := batch.NewScheduler(op, batch.WithLogger(logger))

	cb := batch.Callbacks{
		OnTaskProgress: func(index, percent int) {
			logger.Debug("progress", slog.Int("task", index), slog.Int("percent", percent))
		},
		OnTaskDone: func(index int, tr batch.TaskResult) {
			if tr.Err != nil {
				logger.Warn("failed",
					slog.String("file", tr.File.Name),
					slog.String("kind", string(convert.KindOf(tr.Err))),
					slog.String("error", tr.Err.Error()))
				return
			}
			logger.Info("converted",
				slog.String("file", tr.File.Name),
				slog.String("output", tr.Output.Name),
				slog.String("estimated", humanize.IBytes(uint64(tr.Output.EstimatedSize))))
		},
		OnBatchProgress: func(done, total int) {
			logger.Info("batch progress",
				slog.Int("done", done),
				slog.Int("total", total),
				slog.Int("percent", agg.Overall(done)))
		},
	}

	result, err := sched.Run(ctx, b, cfg.Engine.Jobs, cb)
	if err != nil {
		if errors.Is(err, context.Canceled) && result != nil {
			logger.Warn("interrupted",
				slog.Int("completed", result.Completed),
				slog.Int("pending", result.Pending))
			printSummary(logger, result)
			return 1
		}
		logger.Error("run failed", slog.String("error", err.Error()))
		return 1
	}

	printSummary(logger, result)
	if result.Failed > 0 {
		return 1
	}
	return 0
}

// buildOperation picks the conversion backend from config.
func buildOperation(cfg *config.Config) (convert.Operation, error) {
	if cfg.Engine.Simulate {
		return convert.NewSimulated(convert.SimulatedConfig{
			Deterministic: cfg.Engine.Deterministic,
			StepDelay:     convert.DefaultStepDelay,
			Timeout:       cfg.Timeout(),
			ShrinkFactor:  cfg.Engine.ShrinkFactor,
		}), nil
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.Output.Dir); err != nil {
		return nil, fmt.Errorf("ensure output dir %s: %w", cfg.Output.Dir, err)
	}
	return convert.NewFFmpeg(convert.FFmpegConfig{
		OutputDir:    cfg.Output.Dir,
		Timeout:      cfg.Timeout(),
		ShrinkFactor: cfg.Engine.ShrinkFactor,
	}), nil
}

// printSummary logs the final per-run totals.
func printSummary(logger *slog.Logger, result *batch.Result) {
	logger.Info("summary",
		slog.Int("completed", result.Completed),
		slog.Int("failed", result.Failed),
		slog.Int("pending", result.Pending),
		slog.String("input", humanize.IBytes(uint64(result.InputBytes()))),
		slog.String("estimated_output", humanize.IBytes(uint64(result.EstimatedOutputBytes()))),
		slog.Duration("elapsed", result.Elapsed))
}

// newLogger builds the text logger for the requested level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] <file|directory> ...\n\n", appName)
	fmt.Fprintf(os.Stderr, "Converts audio files to a fixed high-resolution FLAC profile,\nrunning a bounded number of conversions at a time.\n\nFlags:\n")
	flag.PrintDefaults()
}
