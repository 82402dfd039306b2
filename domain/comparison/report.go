package comparison

import (
	"time"

	"fscompare/domain/core"
)

// Report is the finalized comparison handed to reporters and repositories.
type Report struct {
	ID           core.ComparisonID `json:"id"`
	Dataset      string            `json:"dataset"`
	Classifier   string            `json:"classifier"`
	NumFolds     int               `json:"num_folds"`
	NumRepeats   int               `json:"num_repeats"`
	LossName     string            `json:"loss_name"`
	Seed         int64             `json:"seed"`
	ProtocolHash core.Hash         `json:"protocol_hash"`
	Rows         []Row             `json:"rows"`
	CreatedAt    time.Time         `json:"created_at"`
}

// NewReport snapshots a matrix into a report.
func NewReport(id core.ComparisonID, datasetName, classifier string, seed int64, protocol core.Hash, m *AccuracyMatrix) *Report {
	return &Report{
		ID:           id,
		Dataset:      datasetName,
		Classifier:   classifier,
		NumFolds:     m.NumFolds(),
		NumRepeats:   m.NumRepeats(),
		LossName:     m.LossName(),
		Seed:         seed,
		ProtocolHash: protocol,
		Rows:         m.Rows(),
		CreatedAt:    time.Now().UTC(),
	}
}

// Names returns feature-set names in report order.
func (r *Report) Names() []string {
	names := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		names[i] = row.Name
	}
	return names
}

// Best returns the row with the highest mean, treating the loss as a score
// (accuracy-style metrics). ok is false for an empty report.
func (r *Report) Best() (Row, bool) {
	if len(r.Rows) == 0 {
		return Row{}, false
	}
	best := r.Rows[0]
	for _, row := range r.Rows[1:] {
		if row.Summary.Mean > best.Summary.Mean {
			best = row
		}
	}
	return best, true
}
