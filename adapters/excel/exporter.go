package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fscompare/domain/comparison"

	"github.com/xuri/excelize/v2"
)

// Exporter writes comparison reports as xlsx workbooks with a Summary sheet
// and a Losses sheet (one row per repeat and fold, one column per feature set).
type Exporter struct {
	dir string
}

// NewExporter creates an exporter writing into dir
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Path returns the workbook path for a report.
func (e *Exporter) Path(report *comparison.Report) string {
	return filepath.Join(e.dir, fmt.Sprintf("comparison-%s.xlsx", report.ID))
}

// Report implements ports.ReporterPort.
func (e *Exporter) Report(ctx context.Context, report *comparison.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return err
	}
	if err := writeSummary(f, report); err != nil {
		return err
	}
	if _, err := f.NewSheet("Losses"); err != nil {
		return err
	}
	if err := writeLosses(f, report); err != nil {
		return err
	}

	if err := f.SaveAs(e.Path(report)); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, report *comparison.Report) error {
	header := []interface{}{"feature_set", "features", "mean", "std_dev", "median", "min", "max", "ci95"}
	if err := f.SetSheetRow("Summary", "A1", &header); err != nil {
		return err
	}
	for i, row := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		s := row.Summary
		values := []interface{}{row.Name, row.FeatureCount, s.Mean, s.StdDev, s.Median, s.Min, s.Max, s.CI95}
		if err := f.SetSheetRow("Summary", cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func writeLosses(f *excelize.File, report *comparison.Report) error {
	header := []interface{}{"repeat", "fold"}
	for _, name := range report.Names() {
		header = append(header, name)
	}
	if err := f.SetSheetRow("Losses", "A1", &header); err != nil {
		return err
	}

	line := 2
	for r := 0; r < report.NumRepeats; r++ {
		for k := 0; k < report.NumFolds; k++ {
			values := []interface{}{r + 1, k + 1}
			for _, row := range report.Rows {
				values = append(values, row.Losses[r*report.NumFolds+k])
			}
			cell, err := excelize.CoordinatesToCellName(1, line)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow("Losses", cell, &values); err != nil {
				return err
			}
			line++
		}
	}
	return nil
}
