package crossval

import (
	"encoding/json"
	"fmt"
	"sort"

	"fscompare/domain/core"
)

// Assignment is a partition of sample indices into disjoint folds.
type Assignment struct {
	folds      [][]int
	numSamples int
}

// NumFolds returns the number of folds.
func (a *Assignment) NumFolds() int { return len(a.folds) }

// Fold returns a sorted copy of the test indices of fold k.
func (a *Assignment) Fold(k int) []int {
	out := make([]int, len(a.folds[k]))
	copy(out, a.folds[k])
	sort.Ints(out)
	return out
}

// Split returns the train and test indices for holding out fold k, both ascending.
func (a *Assignment) Split(k int) (train, test []int) {
	test = a.Fold(k)
	train = make([]int, 0, a.numSamples-len(test))
	for f := range a.folds {
		if f != k {
			train = append(train, a.folds[f]...)
		}
	}
	sort.Ints(train)
	return train, test
}

// Validate checks that folds are non-empty, disjoint and cover every sample.
func (a *Assignment) Validate() error {
	seen := make([]bool, a.numSamples)
	total := 0
	for k, fold := range a.folds {
		if len(fold) == 0 {
			return &core.DegenerateFoldError{Fold: k, NumFolds: len(a.folds)}
		}
		for _, idx := range fold {
			if idx < 0 || idx >= a.numSamples {
				return &core.DegenerateFoldError{NumFolds: len(a.folds), Reason: fmt.Sprintf("sample %d out of range", idx)}
			}
			if seen[idx] {
				return &core.DegenerateFoldError{NumFolds: len(a.folds), Reason: fmt.Sprintf("sample %d assigned twice", idx)}
			}
			seen[idx] = true
			total++
		}
	}
	if total != a.numSamples {
		return &core.DegenerateFoldError{NumFolds: len(a.folds), Reason: fmt.Sprintf("%d of %d samples assigned", total, a.numSamples)}
	}
	return nil
}

// MarshalJSON encodes the assignment as its sorted folds.
func (a *Assignment) MarshalJSON() ([]byte, error) {
	folds := make([][]int, a.NumFolds())
	for k := range folds {
		folds[k] = a.Fold(k)
	}
	return json.Marshal(struct {
		NumSamples int     `json:"num_samples"`
		Folds      [][]int `json:"folds"`
	}{a.numSamples, folds})
}
