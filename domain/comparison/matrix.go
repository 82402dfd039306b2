package comparison

import (
	"fmt"

	"fscompare/domain/core"
)

// Row is one finalized feature-set entry of an AccuracyMatrix.
type Row struct {
	Name         string    `json:"name"`
	FeatureCount int       `json:"feature_count"`
	Losses       []float64 `json:"losses"`
	Summary      Summary   `json:"summary"`
}

// AccuracyMatrix holds numFolds*numRepeats losses per feature set under a single
// loss metric. It is immutable once built; accessors return copies.
type AccuracyMatrix struct {
	rows       []Row
	numFolds   int
	numRepeats int
	lossName   string
}

// Aggregate validates per-subset results and builds the matrix. Every row must
// report the same loss name and exactly numFolds*numRepeats values.
func Aggregate(results []SubsetResult, numFolds, numRepeats int) (*AccuracyMatrix, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("aggregate: no feature-set results")
	}
	if numFolds < 1 || numRepeats < 1 {
		return nil, fmt.Errorf("aggregate: invalid protocol %d folds x %d repeats", numFolds, numRepeats)
	}
	want := numFolds * numRepeats
	lossName := results[0].LossName

	m := &AccuracyMatrix{
		rows:       make([]Row, len(results)),
		numFolds:   numFolds,
		numRepeats: numRepeats,
		lossName:   lossName,
	}
	for i, r := range results {
		if r.LossName != lossName {
			return nil, &core.InconsistentMetricError{FeatureSet: r.Name, Expected: lossName, Got: r.LossName}
		}
		if len(r.Losses) != want {
			return nil, &core.InconsistentMetricError{
				FeatureSet: r.Name,
				Expected:   fmt.Sprintf("%d values", want),
				Got:        fmt.Sprintf("%d values", len(r.Losses)),
			}
		}
		losses := make([]float64, want)
		copy(losses, r.Losses)
		m.rows[i] = Row{
			Name:         r.Name,
			FeatureCount: r.FeatureCount,
			Losses:       losses,
			Summary:      Summarize(losses),
		}
	}
	return m, nil
}

func (m *AccuracyMatrix) NumFolds() int    { return m.numFolds }
func (m *AccuracyMatrix) NumRepeats() int  { return m.numRepeats }
func (m *AccuracyMatrix) LossName() string { return m.lossName }
func (m *AccuracyMatrix) NumRows() int     { return len(m.rows) }

// Names returns feature-set names in row order.
func (m *AccuracyMatrix) Names() []string {
	names := make([]string, len(m.rows))
	for i, r := range m.rows {
		names[i] = r.Name
	}
	return names
}

// Rows returns deep copies of all rows.
func (m *AccuracyMatrix) Rows() []Row {
	out := make([]Row, len(m.rows))
	for i := range m.rows {
		out[i] = m.Row(i)
	}
	return out
}

// Row returns a deep copy of row i.
func (m *AccuracyMatrix) Row(i int) Row {
	r := m.rows[i]
	r.Losses = append([]float64(nil), r.Losses...)
	return r
}

// Lookup finds a row by feature-set name.
func (m *AccuracyMatrix) Lookup(name string) (Row, bool) {
	for i, r := range m.rows {
		if r.Name == name {
			return m.Row(i), true
		}
	}
	return Row{}, false
}
