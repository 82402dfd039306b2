package dataset

import (
	"fmt"

	"fscompare/domain/core"
	"fscompare/domain/featureset"

	"gonum.org/v1/gonum/mat"
)

// Dataset is the read-only input shared by every feature-set evaluation of a run.
// Matrix rows are samples; column j holds Catalog.Feature(j).
type Dataset struct {
	Name      string
	Catalog   *featureset.Catalog
	Matrix    *mat.Dense
	Labels    Labels
	ClassName []string // optional display names, indexed by class-1
}

// New validates the shape of a dataset. Labels may be nil for an unlabeled dataset.
func New(name string, catalog *featureset.Catalog, matrix *mat.Dense, labels Labels) (*Dataset, error) {
	if catalog == nil || matrix == nil {
		return nil, fmt.Errorf("dataset %s: catalog and matrix are required", name)
	}
	rows, cols := matrix.Dims()
	if cols != catalog.Len() {
		return nil, core.NewCatalogError("dataset %s: matrix has %d columns, catalog has %d features", name, cols, catalog.Len())
	}
	if labels != nil {
		if len(labels) != rows {
			return nil, fmt.Errorf("%w: dataset %s has %d rows but %d labels", core.ErrInvalidLabels, name, rows, len(labels))
		}
		if err := labels.Validate(); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
	}
	return &Dataset{Name: name, Catalog: catalog, Matrix: matrix, Labels: labels}, nil
}

// HasLabels reports whether group labels are assigned.
func (d *Dataset) HasLabels() bool {
	return len(d.Labels) > 0
}

// NumSamples returns the number of rows.
func (d *Dataset) NumSamples() int {
	r, _ := d.Matrix.Dims()
	return r
}

// RequireLabels fails with MissingLabelsError for unlabeled datasets.
func (d *Dataset) RequireLabels() error {
	if !d.HasLabels() {
		return &core.MissingLabelsError{Dataset: d.Name}
	}
	return nil
}

// SelectColumns copies the columns of subset into a new samples x |subset| matrix.
func (d *Dataset) SelectColumns(subset featureset.Subset) (*mat.Dense, error) {
	cols, err := d.Catalog.Columns(subset)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("dataset %s: no columns selected", d.Name)
	}
	rows, _ := d.Matrix.Dims()
	out := mat.NewDense(rows, len(cols), nil)
	for j, c := range cols {
		for i := 0; i < rows; i++ {
			out.Set(i, j, d.Matrix.At(i, c))
		}
	}
	return out, nil
}

// SelectRows copies the given rows of m into a new matrix.
func SelectRows(m mat.Matrix, rows []int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(len(rows), cols, nil)
	for i, r := range rows {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(r, j))
		}
	}
	return out
}
