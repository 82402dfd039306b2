package report

import (
	"context"
	"fmt"

	"fscompare/domain/comparison"
	"fscompare/ports"
)

// Multi fans a report out to several reporters in order, stopping at the first failure.
type Multi []ports.ReporterPort

// Report implements ports.ReporterPort.
func (m Multi) Report(ctx context.Context, report *comparison.Report) error {
	for i, r := range m {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Report(ctx, report); err != nil {
			return fmt.Errorf("reporter %d (%T): %w", i+1, r, err)
		}
	}
	return nil
}
