package ports

import (
	"context"

	"fscompare/domain/comparison"
	"fscompare/domain/core"
)

// ComparisonRepository persists finalized comparison reports.
type ComparisonRepository interface {
	Save(ctx context.Context, report *comparison.Report) error
	Get(ctx context.Context, id core.ComparisonID) (*comparison.Report, error)
	List(ctx context.Context, limit, offset int) ([]*comparison.Report, error)
}
