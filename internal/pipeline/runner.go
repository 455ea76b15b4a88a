// Package pipeline orchestrates a comparison run: list the pictures, convert
// each to a raw frame, score every adjacent pair, then write the report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/picvmaf/internal/config"
	"github.com/backmassage/picvmaf/internal/display"
	"github.com/backmassage/picvmaf/internal/ffmpeg"
	"github.com/backmassage/picvmaf/internal/history"
	"github.com/backmassage/picvmaf/internal/logging"
	"github.com/backmassage/picvmaf/internal/planner"
	"github.com/backmassage/picvmaf/internal/process"
	"github.com/backmassage/picvmaf/internal/report"
	"github.com/backmassage/picvmaf/internal/vmaf"
)

// Deps are the collaborators Run needs besides the config.
type Deps struct {
	// Runner executes ffmpeg and vmaf.
	Runner process.Runner
	// Preflight, when set, is called once the picture list is known and
	// before any tool runs. Skipped in dry-run mode.
	Preflight func(*config.Config) error
	// Progress, when set, receives an inline progress line (TTY only).
	Progress io.Writer
}

// Run executes one comparison run. ErrNotEnoughInputs is returned as-is and
// is not a failure. Any other error aborts the run before the CSV is
// written; the stats returned alongside show how far it got.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) (*RunStats, error) {
	start := time.Now()
	stats := &RunStats{}

	entries, err := Discover(cfg.InputDir, cfg.PicExt)
	stats.Images = len(entries)
	if err != nil {
		return stats, err
	}
	log.Info("Found %d .%s images in %s", len(entries), cfg.PicExt, cfg.InputDir)

	plan := planner.BuildPlan(cfg, entryNames(entries))
	conv := ffmpeg.NewConverter(cfg, deps.Runner)
	comp := vmaf.NewComparator(cfg, deps.Runner)

	if cfg.DryRun {
		logDryRun(log, plan, conv, comp)
		stats.Elapsed = time.Since(start)
		return stats, nil
	}

	if deps.Preflight != nil {
		if err := deps.Preflight(cfg); err != nil {
			return stats, err
		}
	}

	for _, dir := range []string{plan.FrameDir, plan.ResultDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stats, fmt.Errorf("create working directory: %w", err)
		}
	}

	prog := progress{w: deps.Progress}

	// --- Convert ---
	for _, f := range plan.Frames {
		if err := ctx.Err(); err != nil {
			prog.clear()
			return stats, err
		}
		prog.update("Converting", f.Index+1, len(plan.Frames), f.Name)
		log.Debug("Converting %s -> %s", f.Name, filepath.Base(f.Frame))

		if err := conv.Convert(ctx, f.Source, f.Frame); err != nil {
			prog.clear()
			return stats, fmt.Errorf("convert %s: %w", f.Name, err)
		}
		stats.Converted++
	}
	prog.clear()
	log.Info("Converted %d images to %dx%d %s", stats.Converted, cfg.Width, cfg.Height, cfg.PixFmt)

	// --- Compare ---
	rows := make([]report.Row, 0, len(plan.Pairs))
	for _, p := range plan.Pairs {
		if err := ctx.Err(); err != nil {
			prog.clear()
			return stats, err
		}
		prog.update("Comparing", p.Index+1, len(plan.Pairs), p.Right.Name)

		score, err := comp.Compare(ctx, p.Left.Frame, p.Right.Frame, p.Result)
		if err != nil {
			prog.clear()
			return stats, fmt.Errorf("compare %s with %s: %w", p.Left.Name, p.Right.Name, err)
		}
		log.Debug("%s -> %s: %s", p.Left.Name, p.Right.Name, display.FormatScore(score))
		rows = append(rows, report.Row{Left: p.Left.Name, Right: p.Right.Name, Score: score})
		stats.Compared++
	}
	prog.clear()

	// --- Report ---
	if err := report.WriteCSV(cfg.OutputCSV, rows); err != nil {
		return stats, fmt.Errorf("write report: %w", err)
	}
	stats.Rows = rows
	stats.Summary = report.Summarize(rows)
	logSummary(log, cfg, stats)

	if cfg.ChartPath != "" {
		title := fmt.Sprintf("%s (%s)", filepath.Base(cfg.InputDir), cfg.ScoreKey)
		if err := report.WriteChart(cfg.ChartPath, title, rows); err != nil {
			return stats, fmt.Errorf("write chart: %w", err)
		}
		log.Info("Chart saved to %s", cfg.ChartPath)
	}

	stats.WorkBytes = dirSize(plan.FrameDir, plan.ResultDir)
	stats.Elapsed = time.Since(start)

	if cfg.HistoryDB != "" {
		id, err := recordHistory(ctx, cfg, start, stats)
		if err != nil {
			return stats, err
		}
		stats.RunID = id
		log.Debug("Run %s recorded in %s", id, cfg.HistoryDB)
	}
	return stats, nil
}

func recordHistory(ctx context.Context, cfg *config.Config, start time.Time, stats *RunStats) (string, error) {
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return "", err
	}
	defer store.Close()

	return store.RecordRun(ctx, history.Run{
		StartedAt: start,
		InputDir:  cfg.InputDir,
		PicExt:    cfg.PicExt,
		Feature:   cfg.Feature,
		ScoreKey:  cfg.ScoreKey,
		OutputCSV: cfg.OutputCSV,
		Images:    stats.Images,
		MeanScore: stats.Summary.Mean,
		Elapsed:   stats.Elapsed,
	}, stats.Rows)
}

// --- Logging helpers ---

func logDryRun(log *logging.Logger, plan *planner.Plan, conv *ffmpeg.Converter, comp *vmaf.Comparator) {
	log.Warn("DRY RUN: %d conversions and %d comparisons, nothing is executed",
		len(plan.Frames), len(plan.Pairs))
	for _, f := range plan.Frames {
		log.Info("[DRY] %s", process.CommandLine(conv.Exe, conv.Args(f.Source, f.Frame)))
	}
	for _, p := range plan.Pairs {
		log.Info("[DRY] %s", process.CommandLine(comp.Exe, comp.Args(p.Left.Frame, p.Right.Frame, p.Result)))
	}
}

func logSummary(log *logging.Logger, cfg *config.Config, stats *RunStats) {
	s := stats.Summary
	log.Info("==============================")
	log.Info("Compared %d pairs (%s)", s.Count, cfg.ScoreKey)
	log.Info("  Mean: %s  StdDev: %.3f", display.FormatScore(s.Mean), s.StdDev)
	log.Info("  Min:  %s (%s -> %s)", display.FormatScore(s.Min.Score), s.Min.Left, s.Min.Right)
	log.Info("  Max:  %s (%s -> %s)", display.FormatScore(s.Max.Score), s.Max.Left, s.Max.Right)

	for _, i := range report.Outliers(stats.Rows, cfg.OutlierSigma) {
		r := stats.Rows[i]
		log.Outlier("  Low score %s: %s -> %s (below mean by more than %g sd)",
			display.FormatScore(r.Score), r.Left, r.Right, cfg.OutlierSigma)
	}
}
