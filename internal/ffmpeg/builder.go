package ffmpeg

import (
	"fmt"

	"github.com/backmassage/picvmaf/internal/config"
	"github.com/backmassage/picvmaf/internal/process"
)

// Converter turns one picture into one raw frame of fixed size and pixel
// layout. The zero value is not usable; build one with [NewConverter].
type Converter struct {
	Exe     string
	Width   int
	Height  int
	PixFmt  string
	Verbose bool
	Runner  process.Runner
}

// NewConverter returns a Converter configured from cfg that runs ffmpeg
// through r.
func NewConverter(cfg *config.Config, r process.Runner) *Converter {
	return &Converter{
		Exe:     cfg.FfmpegExe,
		Width:   cfg.Width,
		Height:  cfg.Height,
		PixFmt:  cfg.PixFmt,
		Verbose: cfg.Verbose,
		Runner:  r,
	}
}

// Args builds the ffmpeg argument slice (without the executable) converting
// src into dst. The output format is inferred by ffmpeg from dst's ".yuv"
// extension (rawvideo).
func (c *Converter) Args(src, dst string) []string {
	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin")

	// Loglevel: info when verbose, otherwise error.
	if c.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// Overwrite frames left over from a previous run.
	args = append(args, "-y")

	// --- Input ---
	args = append(args, "-i", src)

	// --- Geometry and pixel layout ---
	args = append(args,
		"-s", fmt.Sprintf("%dx%d", c.Width, c.Height),
		"-pix_fmt", c.PixFmt,
	)

	// --- Output ---
	args = append(args, dst)

	return args
}
