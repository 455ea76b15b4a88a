package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteChart draws score per pair. The format follows the extension of
// path: ".html" renders an interactive go-echarts page, ".png", ".svg" and
// ".pdf" a static gonum/plot figure.
func WriteChart(path, title string, rows []Row) error {
	if len(rows) == 0 {
		return errors.New("chart: no rows")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".html":
		return writeHTMLChart(path, title, rows)
	case ".png", ".svg", ".pdf":
		return writePlotChart(path, title, rows)
	default:
		return fmt.Errorf("chart: unsupported format %q", ext)
	}
}

// pairLabel names a pair on chart axes and tooltips.
func pairLabel(r Row) string {
	return r.Left + " > " + r.Right
}

func writeHTMLChart(path, title string, rows []Row) (err error) {
	labels := make([]string, len(rows))
	data := make([]opts.LineData, len(rows))
	for i, r := range rows {
		labels[i] = pairLabel(r)
		data[i] = opts.LineData{Value: r.Score, Name: labels[i]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d pairs", len(rows))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Pair", AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score", Min: 0, Max: 100}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.SetXAxis(labels).AddSeries("score", data)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("chart: %w", cerr)
		}
	}()
	if err := line.Render(f); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	return nil
}

func writePlotChart(path, title string, rows []Row) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Pair"
	p.Y.Label.Text = "Score"
	p.Y.Min, p.Y.Max = 0, 100

	pts := make(plotter.XYs, len(rows))
	for i, r := range rows {
		pts[i].X = float64(i + 1)
		pts[i].Y = r.Score
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	p.Add(line, points, plotter.NewGrid())

	if err := p.Save(12*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	return nil
}
