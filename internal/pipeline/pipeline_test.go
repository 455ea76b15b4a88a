package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/picvmaf/internal/config"
	"github.com/backmassage/picvmaf/internal/history"
	"github.com/backmassage/picvmaf/internal/logging"
	"github.com/backmassage/picvmaf/internal/process"
	"github.com/backmassage/picvmaf/internal/report"
	"github.com/backmassage/picvmaf/internal/testutil"
)

// --- SelectImages / Discover tests ---

func TestSelectImages_NumericOrder(t *testing.T) {
	names := []string{"a10.png", "a2.png", "notes.txt", "a1.png", "a3.PNG", "a4.png.bak"}
	got, err := SelectImages(names, "png")
	require.NoError(t, err)

	want := []ImageEntry{{"a1.png", 1}, {"a2.png", 2}, {"a10.png", 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SelectImages mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectImages_LastDigitRun(t *testing.T) {
	got, err := SelectImages([]string{"v2_shot_09.png", "v3_shot_1.png", "take5-3.png"}, "png")
	require.NoError(t, err)
	assert.Equal(t, []string{"v3_shot_1.png", "take5-3.png", "v2_shot_09.png"}, entryNames(got))
}

func TestSelectImages_TiesKeepInputOrder(t *testing.T) {
	got, err := SelectImages([]string{"b7.png", "a7.png", "c1.png"}, "png")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1.png", "b7.png", "a7.png"}, entryNames(got))
}

func TestSelectImages_InvalidInput(t *testing.T) {
	_, err := SelectImages([]string{"a1.png", "cover.png", "a2.png"}, "png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
	assert.Contains(t, err.Error(), "cover.png")

	_, err = SelectImages([]string{"a1.png", "a99999999999999999999999.png"}, "png")
	assert.True(t, errors.Is(err, ErrInvalidInput), "overflow should be invalid, got %v", err)
}

func TestSelectImages_NotEnough(t *testing.T) {
	for _, names := range [][]string{nil, {"readme.md"}, {"a1.png", "b.jpg"}} {
		entries, err := SelectImages(names, "png")
		assert.True(t, errors.Is(err, ErrNotEnoughInputs), "names=%v got %v", names, err)
		assert.Less(t, len(entries), 2)
	}
}

func TestDiscover_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a2.png")
	touch(t, dir, "a1.png")
	touch(t, dir, "a3.jpg")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a0.png"), 0o755))

	got, err := Discover(dir, "png")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1.png", "a2.png"}, entryNames(got))
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), "png")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotEnoughInputs))
}

// --- Run tests ---

func TestRun_EndToEnd(t *testing.T) {
	cfg := newTestConfig(t, "a1.png", "a2.png", "a3.png")
	tools := &testutil.Tools{Ffmpeg: "ffmpeg", Vmaf: "vmaf", Scores: []float64{90.0, 95.5}}
	r := tools.Runner()
	log, out := newTestLogger(t, cfg)

	stats, err := Run(context.Background(), cfg, log, Deps{Runner: r})
	require.NoError(t, err)

	b, err := os.ReadFile(cfg.OutputCSV)
	require.NoError(t, err)
	assert.Equal(t, "Image 1,Image 2,VMAF Score\na1.png,a2.png,90.0\na2.png,a3.png,95.5\n", string(b))

	assert.Equal(t, 3, stats.Images)
	assert.Equal(t, 3, stats.Converted)
	assert.Equal(t, 2, stats.Compared)
	assert.Equal(t, 2, stats.Summary.Count)
	assert.InDelta(t, 92.75, stats.Summary.Mean, 1e-9)
	assert.Positive(t, stats.WorkBytes)
	assert.Empty(t, stats.RunID)
	assert.Contains(t, out.String(), "Compared 2 pairs")

	// All conversions first, then the comparisons in pair order.
	var order []string
	for _, c := range r.Calls() {
		order = append(order, c.Name)
	}
	assert.Equal(t, []string{"ffmpeg", "ffmpeg", "ffmpeg", "vmaf", "vmaf"}, order)

	vm := r.CallsTo("vmaf")
	assert.Equal(t, filepath.Join(cfg.FrameDir, "a1.yuv"), testutil.ArgAfter(vm[0].Args, "-r"))
	assert.Equal(t, filepath.Join(cfg.FrameDir, "a2.yuv"), testutil.ArgAfter(vm[0].Args, "-d"))
	assert.Equal(t, filepath.Join(cfg.ResultDir, "compare_0_1.json"), testutil.ArgAfter(vm[0].Args, "--output"))
	assert.Equal(t, filepath.Join(cfg.FrameDir, "a3.yuv"), testutil.ArgAfter(vm[1].Args, "-d"))
	assert.Equal(t, filepath.Join(cfg.ResultDir, "compare_1_2.json"), testutil.ArgAfter(vm[1].Args, "--output"))
}

func TestRun_NumericOrderDrivesPairs(t *testing.T) {
	cfg := newTestConfig(t, "a10.png", "a2.png", "a1.png")
	tools := &testutil.Tools{Ffmpeg: "ffmpeg", Vmaf: "vmaf", Scores: []float64{80, 70}}
	log, _ := newTestLogger(t, cfg)

	_, err := Run(context.Background(), cfg, log, Deps{Runner: tools.Runner()})
	require.NoError(t, err)

	rows, err := report.ReadCSV(cfg.OutputCSV)
	require.NoError(t, err)
	want := []report.Row{
		{Left: "a1.png", Right: "a2.png", Score: 80},
		{Left: "a2.png", Right: "a10.png", Score: 70},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ConvertFailureWritesNoCSV(t *testing.T) {
	cfg := newTestConfig(t, "a1.png", "a2.png", "a3.png")
	tools := &testutil.Tools{Ffmpeg: "ffmpeg", Vmaf: "vmaf", Scores: []float64{1, 2}, FailConvert: "a2.png"}
	r := tools.Runner()
	log, _ := newTestLogger(t, cfg)

	stats, err := Run(context.Background(), cfg, log, Deps{Runner: r})
	require.Error(t, err)
	assert.True(t, errors.Is(err, process.ErrExternalTool), "got %v", err)
	assert.Contains(t, err.Error(), "a2.png")
	assert.Equal(t, 1, stats.Converted)
	assert.Empty(t, r.CallsTo("vmaf"))
	assert.NoFileExists(t, cfg.OutputCSV)
}

func TestRun_CompareFailureWritesNoCSV(t *testing.T) {
	cfg := newTestConfig(t, "a1.png", "a2.png", "a3.png")
	tools := &testutil.Tools{Ffmpeg: "ffmpeg", Vmaf: "vmaf", Scores: []float64{1, 2}, FailCompare: 2}
	log, _ := newTestLogger(t, cfg)

	stats, err := Run(context.Background(), cfg, log, Deps{Runner: tools.Runner()})
	require.Error(t, err)
	var te *process.ToolError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, 2, te.StatusCode())
	assert.Equal(t, 1, stats.Compared)
	assert.NoFileExists(t, cfg.OutputCSV)
}

func TestRun_InvalidInputRunsNothing(t *testing.T) {
	cfg := newTestConfig(t, "a1.png", "title.png")
	r := (&testutil.Tools{Ffmpeg: "ffmpeg", Vmaf: "vmaf"}).Runner()
	log, _ := newTestLogger(t, cfg)

	_, err := Run(context.Background(), cfg, log, Deps{Runner: r})
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
	assert.Empty(t, r.Calls())
	assert.NoFileExists(t, cfg.OutputCSV)
}

func TestRun_NotEnoughImagesSkipsPreflight(t *testing.T) {
	cfg := newTestConfig(t, "a1.png", "a2.jpg")
	log, _ := newTestLogger(t, cfg)
	called := false
	deps := Deps{
		Runner:    &testutil.FakeRunner{},
		Preflight: func(*config.Config) error { called = true; return nil },
	}

	stats, err := Run(context.Background(), cfg, log, deps)
	assert.True(t, errors.Is(err, ErrNotEnoughInputs), "got %v", err)
	assert.Equal(t, 1, stats.Images)
	assert.False(t, called)
	assert.NoFileExists(t, cfg.OutputCSV)
}

func TestRun_PreflightFailure(t *testing.T) {
	cfg := newTestConfig(t, "a1.png", "a2.png")
	r := &testutil.FakeRunner{}
	log, _ := newTestLogger(t, cfg)
	missing := errors.New("vmaf not found")

	_, err := Run(context.Background(), cfg, log, Deps{
		Runner:    r,
		Preflight: func(*config.Config) error { return missing },
	})
	assert.ErrorIs(t, err, missing)
	assert.Empty(t, r.Calls())
	assert.NoDirExists(t, cfg.FrameDir)
}

func TestRun_DryRun(t *testing.T) {
	cfg := newTestConfig(t, "a1.png", "a2.png", "a3.png")
	cfg.DryRun = true
	r := &testutil.FakeRunner{}
	log, out := newTestLogger(t, cfg)

	stats, err := Run(context.Background(), cfg, log, Deps{
		Runner:    r,
		Preflight: func(*config.Config) error { return errors.New("must not be called") },
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Images)
	assert.Empty(t, r.Calls())
	assert.NoFileExists(t, cfg.OutputCSV)
	assert.NoDirExists(t, cfg.FrameDir)
	assert.Equal(t, 5, strings.Count(out.String(), "[DRY]"))
	assert.Contains(t, out.String(), "compare_1_2.json")
}

func TestRun_Cancelled(t *testing.T) {
	cfg := newTestConfig(t, "a1.png", "a2.png")
	tools := &testutil.Tools{Ffmpeg: "ffmpeg", Vmaf: "vmaf", Scores: []float64{1}}
	log, _ := newTestLogger(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, cfg, log, Deps{Runner: tools.Runner()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.OutputCSV)
}

func TestRun_OutliersLogged(t *testing.T) {
	names := []string{"s1.png", "s2.png", "s3.png", "s4.png", "s5.png", "s6.png", "s7.png"}
	cfg := newTestConfig(t, names...)
	cfg.OutlierSigma = 1.5
	tools := &testutil.Tools{Ffmpeg: "ffmpeg", Vmaf: "vmaf", Scores: []float64{95, 96, 95, 40, 96, 95}}
	log, out := newTestLogger(t, cfg)

	_, err := Run(context.Background(), cfg, log, Deps{Runner: tools.Runner()})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[OUTLIER]   Low score 40.0: s4.png -> s5.png")
}

func TestRun_ChartAndHistory(t *testing.T) {
	cfg := newTestConfig(t, "a1.png", "a2.png", "a3.png")
	work := filepath.Dir(cfg.OutputCSV)
	cfg.ChartPath = filepath.Join(work, "scores.html")
	cfg.HistoryDB = filepath.Join(work, "db", "history.db")
	tools := &testutil.Tools{Ffmpeg: "ffmpeg", Vmaf: "vmaf", Scores: []float64{90, 95.5}}
	log, _ := newTestLogger(t, cfg)

	stats, err := Run(context.Background(), cfg, log, Deps{Runner: tools.Runner()})
	require.NoError(t, err)
	assert.FileExists(t, cfg.ChartPath)
	require.NotEmpty(t, stats.RunID)

	store, err := history.Open(cfg.HistoryDB)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, stats.RunID, runs[0].ID)
	assert.Equal(t, 3, runs[0].Images)

	rows, err := store.Comparisons(context.Background(), stats.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(stats.Rows, rows); diff != "" {
		t.Errorf("history rows mismatch (-want +got):\n%s", diff)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := progress{w: &buf}
	p.update("Converting", 1, 4, "a1.png")
	assert.True(t, strings.HasPrefix(buf.String(), "\r  Converting [1/4] 25% a1.png"))
	p.clear()

	progress{}.update("Converting", 1, 1, "x") // nil writer is a no-op
}

// --- Helpers ---

func newTestConfig(t *testing.T, names ...string) *config.Config {
	t.Helper()
	in := t.TempDir()
	for _, n := range names {
		touch(t, in, n)
	}
	work := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.InputDir = in
	cfg.OutputCSV = filepath.Join(work, "comparison.csv")
	cfg.FrameDir = filepath.Join(work, "yuv_dir")
	cfg.ResultDir = filepath.Join(work, "json_dir")
	cfg.FfmpegExe = "ffmpeg"
	cfg.VmafExe = "vmaf"
	cfg.ColorMode = config.ColorNever
	return &cfg
}

func newTestLogger(t *testing.T, cfg *config.Config) (*logging.Logger, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	log, err := logging.New(cfg, &out, &errOut)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log, &out
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("img"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}
