package ports

import (
	"context"

	"fscompare/domain/dataset"

	"gonum.org/v1/gonum/mat"
)

// ClassifierSpec selects a classification algorithm and its loss metric.
type ClassifierSpec struct {
	Name     string             `json:"name"`
	LossName string             `json:"loss_name"`
	Params   map[string]float64 `json:"params,omitempty"`
}

// Param returns a numeric hyperparameter or def when unset.
func (s ClassifierSpec) Param(key string, def float64) float64 {
	if v, ok := s.Params[key]; ok {
		return v
	}
	return def
}

// Score is the result of one train/evaluate pass.
type Score struct {
	Loss     float64
	LossName string
}

// ClassifierPort trains on one split and scores the held-out rows.
type ClassifierPort interface {
	TrainAndScore(ctx context.Context, trainX mat.Matrix, trainY dataset.Labels, testX mat.Matrix, testY dataset.Labels, spec ClassifierSpec) (Score, error)
}
