// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ChartFormats lists the accepted --chart file extensions.
var ChartFormats = []string{".html", ".png", ".svg", ".pdf"}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// mutated by [ParseFlags], checked by [Config.Validate] and finally anchored
// by [Config.ResolvePaths] before being passed (by pointer) to the packages
// that need it. Nothing reads the process working directory after that.
type Config struct {
	// Paths.
	InputDir  string // --directory (required).
	PicExt    string // Default: "png". Stored without the leading dot.
	OutputCSV string // Default: "comparison.csv".
	FrameDir  string // Default: "yuv_dir". Raw frames land here.
	ResultDir string // Default: "json_dir". Scorer JSON results land here.
	ChartPath string // Optional score chart (.html, .png, .svg, .pdf).
	HistoryDB string // Optional SQLite history database.

	// External tools.
	FfmpegExe   string        // Default: "ffmpeg" (resolved on PATH).
	VmafExe     string        // Default: "$HOME/bin/vmaf".
	ToolTimeout time.Duration // Default: 0 (wait forever).

	// Frame geometry shared by the converter and the scorer (not user-configurable).
	Width           int    // Fixed: 1920.
	Height          int    // Fixed: 1080.
	PixFmt          string // Fixed: "yuv422p" (converter output layout).
	VmafPixelFormat string // Fixed: "422" (same layout, scorer spelling).
	BitDepth        int    // Fixed: 8.

	// Scoring.
	Feature      string  // Default: "float_ssim".
	ScoreKey     string  // Default: "vmaf". Metrics key read from each result.
	OutlierSigma float64 // Default: 2. Zero disables outlier reporting.

	// Behavior, display and logging.
	DryRun    bool
	Verbose   bool
	CheckOnly bool      // Run --check diagnostics and exit.
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults applied. Used as
// the base before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		PicExt:          "png",
		OutputCSV:       "comparison.csv",
		FrameDir:        "yuv_dir",
		ResultDir:       "json_dir",
		FfmpegExe:       "ffmpeg",
		VmafExe:         DefaultVmafExe(),
		Width:           1920,
		Height:          1080,
		PixFmt:          "yuv422p",
		VmafPixelFormat: "422",
		BitDepth:        8,
		Feature:         "float_ssim",
		ScoreKey:        "vmaf",
		OutlierSigma:    2,
		ColorMode:       ColorAuto,
	}
}

// DefaultVmafExe returns $HOME/bin/vmaf, or plain "vmaf" (PATH lookup) when
// the home directory cannot be determined.
func DefaultVmafExe() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "vmaf"
	}
	return filepath.Join(home, "bin", "vmaf")
}

// NormalizeExt strips surrounding whitespace and any leading dots from an
// extension argument, so "png", ".png" and " .png" all mean the same filter.
func NormalizeExt(ext string) string {
	return strings.TrimLeft(strings.TrimSpace(ext), ".")
}

// Validate normalizes the extension and checks that enum and numeric fields
// hold usable values. When not in CheckOnly mode it also requires the input
// directory.
func (c *Config) Validate() error {
	c.PicExt = NormalizeExt(c.PicExt)
	if c.PicExt == "" {
		return errors.New("picture extension must not be empty")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.Width <= 0 || c.Height <= 0 || c.BitDepth <= 0 {
		return fmt.Errorf("invalid frame geometry %dx%d@%d-bit", c.Width, c.Height, c.BitDepth)
	}
	if strings.TrimSpace(c.Feature) == "" {
		return errors.New("scoring feature must not be empty")
	}
	if strings.TrimSpace(c.ScoreKey) == "" {
		return errors.New("score key must not be empty")
	}
	if c.OutlierSigma < 0 {
		return fmt.Errorf("outlier sigma must be >= 0 (got %g)", c.OutlierSigma)
	}
	if c.ToolTimeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %s)", c.ToolTimeout)
	}
	if c.ChartPath != "" && !validChartExt(filepath.Ext(c.ChartPath)) {
		return fmt.Errorf("unsupported chart format %q (use %s)",
			filepath.Ext(c.ChartPath), strings.Join(ChartFormats, ", "))
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("--directory is required")
	}
	if c.OutputCSV == "" {
		return errors.New("--output must not be empty")
	}
	if c.FrameDir == "" || c.ResultDir == "" {
		return errors.New("working directories must not be empty")
	}
	return nil
}

func validChartExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, f := range ChartFormats {
		if ext == f {
			return true
		}
	}
	return false
}

// ResolvePaths turns every relative path into an absolute one, anchored at
// the current working directory, and rejects working directories that
// collide with the input directory (converted frames must never be mixed
// into the images being listed). Call once at startup after Validate.
func (c *Config) ResolvePaths() error {
	fields := []struct {
		name string
		p    *string
	}{
		{"input directory", &c.InputDir},
		{"output", &c.OutputCSV},
		{"frame directory", &c.FrameDir},
		{"result directory", &c.ResultDir},
		{"chart", &c.ChartPath},
		{"history database", &c.HistoryDB},
		{"log file", &c.LogFile},
	}
	for _, f := range fields {
		if *f.p == "" {
			continue
		}
		abs, err := filepath.Abs(*f.p)
		if err != nil {
			return fmt.Errorf("resolve %s %q: %w", f.name, *f.p, err)
		}
		*f.p = abs
	}

	if c.FrameDir == c.InputDir || c.ResultDir == c.InputDir {
		return errors.New("working directories must not be the input directory")
	}
	if c.FrameDir == c.ResultDir {
		return errors.New("frame and result directories must differ")
	}
	return nil
}
