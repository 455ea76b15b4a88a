// Package term provides ANSI color state and terminal detection.
//
// The palette is package-level because both logging and display decorate
// output with it. [Configure] sets it once during startup; when colors are
// disabled every entry is an empty string, so concatenation and [Paint]
// become no-ops.
package term

import (
	"io"
	"os"
	"strings"

	"github.com/backmassage/picvmaf/internal/config"
)

// Palette maps each output role to its ANSI sequence.
type Palette struct {
	Info    string
	Success string
	Warn    string
	Error   string
	Debug   string
	Outlier string
	Banner  string
	Reset   string
}

var ansi = Palette{
	Info:    "\033[1;94m",
	Success: "\033[1;92m",
	Warn:    "\033[1;93m",
	Error:   "\033[1;91m",
	Debug:   "\033[1;96m",
	Outlier: "\033[1;38;5;208m",
	Banner:  "\033[1;95m",
	Reset:   "\033[0m",
}

// Colors is the active palette. Zero value means colors are off.
var Colors Palette

// Configure resolves the color mode against out and sets [Colors]. Call once
// during startup (from [logging.New]).
func Configure(mode config.ColorMode, out io.Writer) {
	if resolve(mode, out) {
		Colors = ansi
	} else {
		Colors = Palette{}
	}
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return Colors.Reset != "" }

// Paint wraps s in color and a reset sequence. Returns s unchanged when
// color is empty.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + Colors.Reset
}

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(out) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether w is a file attached to a TTY (character device).
// Buffers and pipes are never terminals.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
