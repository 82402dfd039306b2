package ports

import (
	"context"

	"fscompare/domain/comparison"
)

// ReporterPort receives the finalized comparison. Rendering lives entirely
// behind this port.
type ReporterPort interface {
	Report(ctx context.Context, report *comparison.Report) error
}
