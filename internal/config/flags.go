package config

// This file implements CLI flag parsing and help text.
// Long flags use underscore spelling (--pic_ext, --vmaf_exe).
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Sentinel results of [ParseFlags] that ask the caller to print and exit 0.
var (
	ErrHelp    = pflag.ErrHelp
	ErrVersion = errors.New("version requested")
)

// ParseFlags parses args (without the program name) into cfg. It returns
// [ErrHelp] or [ErrVersion] when the user asked for help or the version;
// any other error is a usage error (unknown flag, bad value, stray argument).
func ParseFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("picvmaf", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var negated negatedFlags

	definePathFlags(fs, cfg)
	defineToolFlags(fs, cfg)
	defineScoringFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &negated)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		return ErrHelp
	}
	if negated.showVersion {
		return ErrVersion
	}

	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q (use --directory)", fs.Arg(0))
	}
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either override a default (forceColor, noColor) or end the run early (showHelp, showVersion).
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// definePathFlags registers --directory, --pic_ext, --output and the working directories.
func definePathFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.InputDir, "directory", cfg.InputDir, "Directory holding the pictures to compare")
	fs.StringVar(&cfg.PicExt, "pic_ext", cfg.PicExt, "Extension of the pictures to compare")
	fs.StringVar(&cfg.OutputCSV, "output", cfg.OutputCSV, "CSV report path")
	fs.StringVar(&cfg.FrameDir, "frame_dir", cfg.FrameDir, "Working directory for converted raw frames")
	fs.StringVar(&cfg.ResultDir, "result_dir", cfg.ResultDir, "Working directory for scorer JSON results")
	fs.StringVar(&cfg.ChartPath, "chart", cfg.ChartPath, "Write a score chart (.html, .png, .svg, .pdf)")
	fs.StringVar(&cfg.HistoryDB, "history", cfg.HistoryDB, "Append run results to a SQLite database")
}

// defineToolFlags registers the external tool paths and --timeout.
func defineToolFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.VmafExe, "vmaf_exe", cfg.VmafExe, "Path to the vmaf executable")
	fs.StringVar(&cfg.FfmpegExe, "ffmpeg_exe", cfg.FfmpegExe, "Path to the ffmpeg executable")
	fs.DurationVar(&cfg.ToolTimeout, "timeout", cfg.ToolTimeout, "Per-invocation tool timeout (0 = none)")
}

// defineScoringFlags registers --feature, --score_key and --outlier_sigma.
func defineScoringFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Feature, "feature", cfg.Feature, "vmaf feature variant")
	fs.StringVar(&cfg.ScoreKey, "score_key", cfg.ScoreKey, "Metric key read from each result")
	fs.Float64Var(&cfg.OutlierSigma, "outlier_sigma", cfg.OutlierSigma, "Flag pairs below mean - N*stddev (0 = off)")
}

// defineBehaviorFlags registers dry-run, check, verbose, color, log, version and help.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Print the plan; do not run any tool")
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", false, "Run tool diagnostics and exit")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output (tool stderr is shown live)")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
	fs.BoolVarP(&n.showVersion, "version", "V", false, "Print version and exit")
	fs.BoolVarP(&n.showHelp, "help", "h", false, "Show this help and exit")
}

// applyNegatedFlags copies override flag values into cfg. --no-color wins over --color.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// PrintUsage writes the help text to w. Column-aligned for readability.
func PrintUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  --long_name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "picvmaf v" + version + " - VMAF scores for consecutive pictures"},
		{"", ""},
		{"  picvmaf --directory <dir> [OPTIONS]", ""},
		{"", ""},
		{"Input & output", ""},
		{"  --directory <dir>", "Pictures to compare (required)"},
		{"  --pic_ext <ext>", "Picture extension (default: png)"},
		{"  --output <path>", "CSV report (default: comparison.csv)"},
		{"  --frame_dir <dir>", "Converted frames (default: yuv_dir)"},
		{"  --result_dir <dir>", "Scorer results (default: json_dir)"},
		{"  --chart <path>", "Score chart: .html, .png, .svg or .pdf"},
		{"  --history <db>", "Append results to a SQLite database"},
		{"", ""},
		{"Tools", ""},
		{"  --vmaf_exe <path>", "vmaf executable (default: $HOME/bin/vmaf)"},
		{"  --ffmpeg_exe <path>", "ffmpeg executable (default: ffmpeg)"},
		{"  --timeout <duration>", "Per-invocation timeout, e.g. 2m (default: none)"},
		{"", ""},
		{"Scoring", ""},
		{"  --feature <name>", "vmaf feature (default: float_ssim)"},
		{"  --score_key <key>", "Metric read from results (default: vmaf)"},
		{"  --outlier_sigma <n>", "Flag pairs below mean - n*stddev (default: 2)"},
		{"", ""},
		{"Behavior & display", ""},
		{"  -n, --dry-run", "Print the plan; do not run any tool"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"  -l, --log <path>", "Append logs to file"},
		{"", ""},
		{"Utility", ""},
		{"  -c, --check", "Tool diagnostics (ffmpeg, vmaf)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		switch {
		case l.flags == "" && l.desc == "":
			fmt.Fprintln(w)
		case l.desc == "":
			fmt.Fprintln(w, l.flags)
		case l.flags == "":
			fmt.Fprintln(w, l.desc)
		default:
			padding := col1 - len(l.flags)
			if padding < 1 {
				padding = 1
			}
			fmt.Fprintf(w, "%s%s%s\n", l.flags, strings.Repeat(" ", padding), l.desc)
		}
	}
}
