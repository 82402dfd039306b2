package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"fscompare/domain/comparison"
)

// TextReporter prints a summary table, one line per feature set.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter creates a reporter writing to w
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// Report implements ports.ReporterPort.
func (t *TextReporter) Report(ctx context.Context, report *comparison.Report) error {
	return WriteText(t.w, report)
}

// WriteText renders the summary table. The best mean is starred.
func WriteText(w io.Writer, report *comparison.Report) error {
	fmt.Fprintf(w, "Comparison %s\n", report.ID)
	fmt.Fprintf(w, "dataset=%s classifier=%s loss=%s folds=%d repeats=%d seed=%d protocol=%s\n\n",
		report.Dataset, report.Classifier, report.LossName, report.NumFolds, report.NumRepeats, report.Seed, report.ProtocolHash.Short())

	best, _ := report.Best()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "feature set\tfeatures\tmean\tsd\tmedian\tmin\tmax\tci95\t")
	for _, row := range report.Rows {
		name := row.Name
		if row.Name == best.Name {
			name = "*" + name
		}
		s := row.Summary
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t±%.2f\t\n",
			name, row.FeatureCount, s.Mean, s.StdDev, s.Median, s.Min, s.Max, s.CI95)
	}
	return tw.Flush()
}
