package process

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrExternalTool matches every [ToolError] via errors.Is.
var ErrExternalTool = errors.New("external tool failed")

// ToolError describes a failed tool invocation: either the process could not
// be started (Err set, ExitCode -1) or it exited non-zero.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Hint     string // Optional diagnosis derived from stderr.
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	b.WriteString(filepath.Base(e.Tool))
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	} else {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	}
	if e.Hint != "" {
		b.WriteString(" (" + e.Hint + ")")
	}
	return b.String()
}

// Unwrap exposes the start error, if any.
func (e *ToolError) Unwrap() error { return e.Err }

// Is makes every ToolError match [ErrExternalTool].
func (e *ToolError) Is(target error) bool { return target == ErrExternalTool }

// StatusCode returns the exit status a CLI should propagate for this
// failure: the tool's own code when it exited, 1 otherwise.
func (e *ToolError) StatusCode() int {
	if e.ExitCode > 0 && e.ExitCode < 256 {
		return e.ExitCode
	}
	return 1
}

// StderrTail returns at most n trailing non-empty lines of the captured stderr.
func (e *ToolError) StderrTail(n int) []string {
	trimmed := strings.TrimSpace(e.Stderr)
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Check converts the outcome of Runner.Run into an error: nil on a clean
// zero exit, otherwise a *ToolError carrying the command and its stderr.
func Check(tool string, args []string, res Result, err error) error {
	if err == nil && res.ExitCode == 0 {
		return nil
	}
	return &ToolError{
		Tool:     tool,
		Args:     args,
		ExitCode: res.ExitCode,
		Stderr:   res.Stderr,
		Err:      err,
	}
}

// CommandLine renders tool and args as a single shell-like line for logs.
// Arguments containing spaces are quoted.
func CommandLine(tool string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{tool}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
