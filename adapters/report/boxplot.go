package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fscompare/domain/comparison"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// BoxPlot draws one box of per-fold losses per feature set.
func BoxPlot(report *comparison.Report) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s by feature set", report.Dataset, report.LossName)
	p.Y.Label.Text = report.LossName + " (%)"

	width := vg.Points(20)
	for i, row := range report.Rows {
		box, err := plotter.NewBoxPlot(width, float64(i), plotter.Values(row.Losses))
		if err != nil {
			return nil, fmt.Errorf("box for %s: %w", row.Name, err)
		}
		p.Add(box)
	}
	p.NominalX(report.Names()...)
	p.Add(plotter.NewGrid())
	return p, nil
}

// WriteBoxPlotPNG renders the box plot as PNG into w.
func WriteBoxPlotPNG(w io.Writer, report *comparison.Report) error {
	p, err := BoxPlot(report)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth(report), 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func plotWidth(report *comparison.Report) vg.Length {
	w := vg.Length(len(report.Rows)) * vg.Inch
	if w < 4*vg.Inch {
		w = 4 * vg.Inch
	}
	return w
}

// BoxPlotReporter saves comparison-<id>.png into a directory.
type BoxPlotReporter struct {
	dir string
}

// NewBoxPlotReporter creates a reporter writing into dir
func NewBoxPlotReporter(dir string) *BoxPlotReporter {
	return &BoxPlotReporter{dir: dir}
}

// Report implements ports.ReporterPort.
func (b *BoxPlotReporter) Report(ctx context.Context, report *comparison.Report) error {
	p, err := BoxPlot(report)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(b.dir, fmt.Sprintf("comparison-%s.png", report.ID))
	return p.Save(plotWidth(report), 4*vg.Inch, path)
}
