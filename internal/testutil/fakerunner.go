// Package testutil provides fakes for the external tools so pipeline stages
// can be tested without ffmpeg or vmaf installed.
package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/backmassage/picvmaf/internal/process"
)

// Call records one invocation seen by a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// FakeRunner is a process.Runner that records calls and delegates the
// outcome to Handle. A nil Handle succeeds with an empty Result.
type FakeRunner struct {
	Handle func(name string, args []string) (process.Result, error)

	mu    sync.Mutex
	calls []Call
}

// Run implements process.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (process.Result, error) {
	if err := ctx.Err(); err != nil {
		return process.Result{ExitCode: -1}, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	if f.Handle == nil {
		return process.Result{}, nil
	}
	return f.Handle(name, args)
}

// Calls returns every recorded invocation in order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded invocations of executable name, in order.
func (f *FakeRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ArgAfter returns the argument following flag, or "" when flag is absent
// or last.
func ArgAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// VmafJSON renders a single-frame vmaf result document with score stored
// under key, shaped like the output of "vmaf --json".
func VmafJSON(key string, score float64) []byte {
	doc := map[string]any{
		"version": "3.0.0",
		"fps":     1.23,
		"frames": []any{
			map[string]any{
				"frameNum": 0,
				"metrics": map[string]float64{
					"float_ssim": 0.991,
					key:          score,
				},
			},
		},
		"pooled_metrics": map[string]any{
			key: map[string]float64{"min": score, "max": score, "mean": score},
		},
	}
	b, _ := json.Marshal(doc)
	return b
}

// Tools simulates ffmpeg and vmaf for a FakeRunner: ffmpeg writes a dummy
// frame to its last argument; vmaf writes the next entry of Scores to the
// --output path. Failures are injected by picture name or pair number.
type Tools struct {
	Ffmpeg   string    // executable name dispatched as ffmpeg
	Vmaf     string    // executable name dispatched as vmaf
	ScoreKey string    // metrics key written by vmaf; "vmaf" when empty
	Scores   []float64 // consumed in order, one per vmaf call

	FailConvert string // picture basename for which ffmpeg exits 1
	FailCompare int    // 1-based vmaf call that exits 2; 0 never
	SkipWrite   bool   // vmaf exits 0 without writing its result

	mu        sync.Mutex
	vmafCalls int
}

// Runner returns a FakeRunner driven by t.
func (t *Tools) Runner() *FakeRunner {
	return &FakeRunner{Handle: t.Handle}
}

// Handle dispatches on the executable name.
func (t *Tools) Handle(name string, args []string) (process.Result, error) {
	switch name {
	case t.Ffmpeg:
		return t.convert(args)
	case t.Vmaf:
		return t.compare(args)
	}
	return process.Result{ExitCode: 127, Stderr: name + ": command not found\n"}, nil
}

func (t *Tools) convert(args []string) (process.Result, error) {
	src := ArgAfter(args, "-i")
	if t.FailConvert != "" && filepath.Base(src) == t.FailConvert {
		return process.Result{
			ExitCode: 1,
			Stderr:   src + ": Invalid data found when processing input\n",
		}, nil
	}
	dst := args[len(args)-1]
	if err := os.WriteFile(dst, []byte("frame:"+filepath.Base(src)), 0o644); err != nil {
		return process.Result{ExitCode: 1, Stderr: err.Error() + "\n"}, nil
	}
	return process.Result{}, nil
}

func (t *Tools) compare(args []string) (process.Result, error) {
	t.mu.Lock()
	t.vmafCalls++
	n := t.vmafCalls
	t.mu.Unlock()

	if t.FailCompare == n {
		return process.Result{ExitCode: 2, Stderr: "problem loading reference\n"}, nil
	}
	if n > len(t.Scores) {
		return process.Result{ExitCode: 1, Stderr: "no score scripted\n"}, nil
	}
	if t.SkipWrite {
		return process.Result{}, nil
	}
	key := t.ScoreKey
	if key == "" {
		key = "vmaf"
	}
	out := ArgAfter(args, "--output")
	if err := os.WriteFile(out, VmafJSON(key, t.Scores[n-1]), 0o644); err != nil {
		return process.Result{ExitCode: 1, Stderr: err.Error() + "\n"}, nil
	}
	return process.Result{}, nil
}
