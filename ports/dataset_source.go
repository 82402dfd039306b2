package ports

import (
	"context"

	"fscompare/domain/dataset"
)

// DatasetSource loads a labeled feature matrix by selector (a file path or a
// generator name, depending on the implementation).
type DatasetSource interface {
	Load(ctx context.Context, selector string) (*dataset.Dataset, error)
}
