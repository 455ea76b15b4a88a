// Command picvmaf scores every pair of consecutive pictures in a directory
// with vmaf and writes the scores to a CSV report.
//
// It parses flags, validates configuration and paths, and either runs the
// tool diagnostics (--check) or the comparison pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/picvmaf/internal/check"
	"github.com/backmassage/picvmaf/internal/config"
	"github.com/backmassage/picvmaf/internal/display"
	"github.com/backmassage/picvmaf/internal/logging"
	"github.com/backmassage/picvmaf/internal/pipeline"
	"github.com/backmassage/picvmaf/internal/process"
	"github.com/backmassage/picvmaf/internal/term"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// stderrTailLines is how much of a failed tool's stderr is echoed.
const stderrTailLines = 20

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, nil))
}

// run is the whole program minus os.Exit. A nil runner executes the real
// tools.
func run(args []string, stdout, stderr io.Writer, runner process.Runner) int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, args); err != nil {
		switch {
		case errors.Is(err, config.ErrHelp):
			config.PrintUsage(stdout, version)
			return 0
		case errors.Is(err, config.ErrVersion):
			fmt.Fprintf(stdout, "picvmaf %s (%s)\n", version, commit)
			return 0
		}
		fmt.Fprintf(stderr, "picvmaf: %v\n", err)
		fmt.Fprintln(stderr, "Try 'picvmaf --help' for usage.")
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "picvmaf: %v\n", err)
		return 1
	}
	if err := cfg.ResolvePaths(); err != nil {
		fmt.Fprintf(stderr, "picvmaf: %v\n", err)
		return 1
	}

	log, err := logging.New(&cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "picvmaf: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner(stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	log.Info("=== picvmaf v%s (%s) ===", version, commit)
	log.Info("In:  %s (*.%s)", cfg.InputDir, cfg.PicExt)
	log.Info("Out: %s", cfg.OutputCSV)
	log.Debug("Frames: %s", cfg.FrameDir)
	log.Debug("Results: %s", cfg.ResultDir)
	if cfg.DryRun {
		log.Warn("DRY RUN: no tool is run and no file is written")
	}

	if runner == nil {
		er := &process.ExecRunner{Timeout: cfg.ToolTimeout}
		if cfg.Verbose {
			er.Tee = stderr
		}
		runner = er
	}

	// Phase 3: Signal handling. SIGINT/SIGTERM cancel the context, which
	// kills the running tool and aborts the run.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping…")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 4: Run pipeline (list → convert → compare → report).
	deps := pipeline.Deps{Runner: runner, Preflight: check.CheckDeps}
	if !cfg.Verbose && term.IsTerminal(stdout) {
		deps.Progress = stdout
	}

	stats, err := pipeline.Run(ctx, &cfg, log, deps)
	if errors.Is(err, pipeline.ErrNotEnoughInputs) {
		fmt.Fprintln(stdout, "Not enough images to compare.")
		return 0
	}
	if err != nil {
		return failureCode(log, err)
	}

	if cfg.DryRun {
		log.Success("Dry run complete: %d images", stats.Images)
		return 0
	}
	log.Info("Working files: %s in %s and %s",
		display.FormatBytes(stats.WorkBytes), cfg.FrameDir, cfg.ResultDir)
	log.Info("Elapsed: %s", display.FormatElapsed(stats.Elapsed))
	if stats.RunID != "" {
		log.Info("History: run %s", stats.RunID)
	}
	log.Success("Comparison completed. Results saved to %s", cfg.OutputCSV)
	return 0
}

// failureCode logs err and maps it to the process exit status: 130 on
// interrupt, the tool's own status on a tool failure, 1 otherwise.
func failureCode(log *logging.Logger, err error) int {
	if errors.Is(err, context.Canceled) {
		log.Warn("Interrupted: %v", err)
		return 130
	}

	log.Error("%v", err)

	var te *process.ToolError
	if !errors.As(err, &te) {
		return 1
	}
	if tail := te.StderrTail(stderrTailLines); len(tail) > 0 {
		log.Error("Last %s output:", filepath.Base(te.Tool))
		for _, l := range tail {
			log.Error("  %s", l)
		}
	}
	log.Debug("Command: %s", process.CommandLine(te.Tool, te.Args))
	return te.StatusCode()
}
