// Package logging provides the leveled console logger used by every stage
// of a run, with an optional plain-text file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/picvmaf/internal/config"
	"github.com/backmassage/picvmaf/internal/term"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger provides leveled, optionally colored logging with optional file sink.
// ERROR lines go to the error writer; everything else to the output writer.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	file    *os.File
	verbose bool
}

// NewLogger builds a Logger writing to stdout/stderr. Call Close() when done
// if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return New(cfg, os.Stdout, os.Stderr)
}

// New builds a Logger on explicit writers. It configures the terminal
// palette from cfg.ColorMode (auto mode inspects out) and opens cfg.LogFile
// for appending when set.
func New(cfg *config.Config, out, errOut io.Writer) (*Logger, error) {
	term.Configure(cfg.ColorMode, out)

	l := &Logger{out: out, errOut: errOut, verbose: cfg.Verbose}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
	}
	return l, nil
}

// Verbose reports whether DEBUG lines are emitted.
func (l *Logger) Verbose() bool { return l.verbose }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format(timeLayout)
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.out
	if level == "ERROR" {
		w = l.errOut
	}
	_, _ = io.WriteString(w, ts+" "+term.Paint(color, "["+level+"]")+" "+text+"\n")
	if l.file != nil {
		_, _ = io.WriteString(l.file, ts+" ["+level+"] "+text+"\n")
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...any) {
	l.line("INFO", term.Colors.Info, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...any) {
	l.line("SUCCESS", term.Colors.Success, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...any) {
	l.line("WARN", term.Colors.Warn, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red) on the error writer.
func (l *Logger) Error(format string, args ...any) {
	l.line("ERROR", term.Colors.Error, fmt.Sprintf(format, args...))
}

// Outlier logs at OUTLIER level (orange). Used for suspiciously low scores.
func (l *Logger) Outlier(format string, args ...any) {
	l.line("OUTLIER", term.Colors.Outlier, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when the logger is verbose.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", term.Colors.Debug, fmt.Sprintf(format, args...))
}
