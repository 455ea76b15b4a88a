package vmaf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/backmassage/picvmaf/internal/config"
	"github.com/backmassage/picvmaf/internal/process"
)

// Comparator scores one (reference, distorted) frame pair. Geometry and
// pixel layout must match what the converter produced.
type Comparator struct {
	Exe         string
	Width       int
	Height      int
	PixelFormat string // "420", "422" or "444"
	BitDepth    int
	Feature     string
	ScoreKey    string
	Runner      process.Runner
}

// NewComparator returns a Comparator configured from cfg that runs vmaf
// through r.
func NewComparator(cfg *config.Config, r process.Runner) *Comparator {
	return &Comparator{
		Exe:         cfg.VmafExe,
		Width:       cfg.Width,
		Height:      cfg.Height,
		PixelFormat: cfg.VmafPixelFormat,
		BitDepth:    cfg.BitDepth,
		Feature:     cfg.Feature,
		ScoreKey:    cfg.ScoreKey,
		Runner:      r,
	}
}

// Args builds the vmaf argument slice (without the executable).
func (c *Comparator) Args(ref, dist, resultPath string) []string {
	return []string{
		"-r", ref,
		"-d", dist,
		"--width", strconv.Itoa(c.Width),
		"--height", strconv.Itoa(c.Height),
		"--pixel_format", c.PixelFormat,
		"--bitdepth", strconv.Itoa(c.BitDepth),
		"--feature", c.Feature,
		"--json",
		"--output", resultPath,
	}
}

// Compare scores dist against ref and returns the value stored under
// ScoreKey in the result file written to resultPath. Any file already at
// resultPath is removed first so a run that writes nothing cannot be
// mistaken for a fresh result.
//
// A failed run returns a *process.ToolError; an unusable result file
// returns an error matching [ErrMalformedResult].
func (c *Comparator) Compare(ctx context.Context, ref, dist, resultPath string) (float64, error) {
	if err := os.Remove(resultPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("remove stale result %s: %w", resultPath, err)
	}

	args := c.Args(ref, dist, resultPath)
	res, runErr := c.Runner.Run(ctx, c.Exe, args...)
	if err := process.Check(c.Exe, args, res, runErr); err != nil {
		return 0, err
	}

	return ReadResult(resultPath, c.ScoreKey)
}
