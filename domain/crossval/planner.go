package crossval

import (
	"fmt"
	"math/rand"

	"fscompare/domain/core"
	"fscompare/domain/dataset"
)

// DefaultMaxFolds caps the fold count when the smallest class is large.
const DefaultMaxFolds = 10

// Planner chooses fold counts and builds stratified fold assignments.
type Planner struct {
	maxFolds int
}

// NewPlanner creates a planner; maxFolds < 2 falls back to DefaultMaxFolds.
func NewPlanner(maxFolds int) *Planner {
	if maxFolds < 2 {
		maxFolds = DefaultMaxFolds
	}
	return &Planner{maxFolds: maxFolds}
}

// MaxFolds returns the configured cap.
func (p *Planner) MaxFolds() int { return p.maxFolds }

// ChooseFoldCount returns the largest k <= maxFolds such that every class
// 1..numClasses has at least k members.
func (p *Planner) ChooseFoldCount(labels dataset.Labels, numClasses int) (int, error) {
	if numClasses < 1 {
		return 0, fmt.Errorf("%w: numClasses must be positive, got %d", core.ErrInvalidLabels, numClasses)
	}
	counts := labels.ClassCounts(numClasses)

	smallest, smallestClass := counts[0], 1
	for c, n := range counts {
		if n < smallest {
			smallest, smallestClass = n, c+1
		}
	}
	if smallest < 2 {
		return 0, &core.InsufficientClassSizeError{Class: smallestClass, Size: smallest}
	}
	if smallest > p.maxFolds {
		return p.maxFolds, nil
	}
	return smallest, nil
}

// AssignFolds partitions sample indices into numFolds stratified folds.
// Each class is shuffled with rng and dealt round-robin; the dealing cursor
// carries over between classes so fold sizes differ by at most one.
func (p *Planner) AssignFolds(labels dataset.Labels, numFolds int, rng *rand.Rand) (*Assignment, error) {
	n := len(labels)
	if numFolds < 2 {
		return nil, &core.DegenerateFoldError{NumFolds: numFolds, Reason: fmt.Sprintf("need at least 2 folds, got %d", numFolds)}
	}
	if numFolds > n {
		return nil, &core.DegenerateFoldError{NumFolds: numFolds, Reason: fmt.Sprintf("%d folds for %d samples", numFolds, n)}
	}

	folds := make([][]int, numFolds)
	cursor := 0
	for _, members := range labels.ByClass(labels.NumClasses()) {
		shuffled := make([]int, len(members))
		copy(shuffled, members)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		for _, idx := range shuffled {
			folds[cursor] = append(folds[cursor], idx)
			cursor = (cursor + 1) % numFolds
		}
	}

	a := &Assignment{folds: folds, numSamples: n}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
