// Package check provides the --check diagnostics and the pre-run dependency
// validation (CheckDeps) for the ffmpeg and vmaf executables.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/picvmaf/internal/config"
	"github.com/backmassage/picvmaf/internal/process"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound = errors.New("ffmpeg not found")
	ErrVmafNotFound   = errors.New("vmaf not found")
)

// versionTimeout bounds each version probe in RunCheck.
const versionTimeout = 10 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...any)
	Success(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
}

// CheckDeps verifies that the configured ffmpeg and vmaf executables
// resolve. Bare names are looked up on PATH; paths must point at an
// executable file.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FfmpegExe); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FfmpegExe)
	}
	if _, err := exec.LookPath(cfg.VmafExe); err != nil {
		return fmt.Errorf("%w: %s (set --vmaf_exe)", ErrVmafNotFound, cfg.VmafExe)
	}
	return nil
}

// RunCheck prints the availability and version of each tool. It reports
// false when a tool is missing; a tool that is present but fails its
// version probe only warns.
func RunCheck(cfg *config.Config, log Logger) bool {
	return runCheck(context.Background(), cfg, log, &process.ExecRunner{Timeout: versionTimeout})
}

func runCheck(ctx context.Context, cfg *config.Config, log Logger, r process.Runner) bool {
	log.Info("=== System Check ===")

	ok := checkTool(ctx, log, r, "ffmpeg", cfg.FfmpegExe, "-version")
	ok = checkTool(ctx, log, r, "vmaf", cfg.VmafExe, "--version") && ok

	if ok {
		log.Info("Frames: %dx%d %s, scoring feature %s, score key %s",
			cfg.Width, cfg.Height, cfg.PixFmt, cfg.Feature, cfg.ScoreKey)
	}
	return ok
}

// checkTool resolves exe and logs the first line of its version output.
func checkTool(ctx context.Context, log Logger, r process.Runner, label, exe, versionFlag string) bool {
	path, err := exec.LookPath(exe)
	if err != nil {
		log.Error("%s not found: %s", label, exe)
		return false
	}

	res, err := r.Run(ctx, path, versionFlag)
	if err := process.Check(label, []string{versionFlag}, res, err); err != nil {
		log.Warn("%s found at %s but %s failed: %v", label, path, versionFlag, err)
		return true
	}

	version := firstLine(res.Stdout)
	if version == "" {
		version = firstLine(res.Stderr)
	}
	if version == "" {
		version = "version unknown"
	}
	log.Success("%s: %s (%s)", label, version, path)
	return true
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}
