package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

// waitDelay caps how long a killed tool's orphaned children may hold the
// output pipes open.
const waitDelay = 2 * time.Second

// Result holds the outcome of a single tool invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner starts a process and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner is the [Runner] backed by os/exec.
type ExecRunner struct {
	// Tee, when set, receives the tool's stderr live in addition to the
	// captured copy (verbose mode).
	Tee io.Writer
	// Timeout bounds each invocation. Zero waits forever.
	Timeout time.Duration
}

// Run executes name with args. A non-zero exit is reported through
// Result.ExitCode with a nil error; the error is reserved for processes
// that could not be started or were killed by ctx or the timeout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if r.Tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, r.Tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	res := Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	res.ExitCode = -1
	return res, err
}
