package app

import (
	"context"
	"fmt"

	"fscompare/domain/comparison"
	"fscompare/domain/core"
	"fscompare/domain/crossval"
	"fscompare/domain/dataset"
	"fscompare/domain/featureset"
	"fscompare/internal"
	"fscompare/ports"
)

// CrossValidationEvaluator runs repeated stratified k-fold cross-validation of
// one classifier on one feature subset.
type CrossValidationEvaluator struct {
	planner    *crossval.Planner
	classifier ports.ClassifierPort
	rngPort    ports.RNGPort
	seed       int64
	logger     *internal.Logger
}

// NewCrossValidationEvaluator creates an evaluator whose fold assignments are
// drawn from rngPort streams derived from seed.
func NewCrossValidationEvaluator(planner *crossval.Planner, classifier ports.ClassifierPort, rngPort ports.RNGPort, seed int64, logger *internal.Logger) *CrossValidationEvaluator {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &CrossValidationEvaluator{
		planner:    planner,
		classifier: classifier,
		rngPort:    rngPort,
		seed:       seed,
		logger:     logger.WithComponent("crossval"),
	}
}

// repeatStream names the RNG stream of repeat r. Every subset of a run draws
// the same stream for the same repeat, so all rows share their partitions.
func repeatStream(r int) string {
	return fmt.Sprintf("crossval-repeat-%d", r)
}

// Assignment returns the fold assignment used for repeat r.
func (e *CrossValidationEvaluator) Assignment(ctx context.Context, labels dataset.Labels, numFolds, r int) (*crossval.Assignment, error) {
	rng, err := e.rngPort.Stream(ctx, repeatStream(r), e.seed)
	if err != nil {
		return nil, fmt.Errorf("rng stream for repeat %d: %w", r+1, err)
	}
	return e.planner.AssignFolds(labels, numFolds, rng)
}

// Evaluate returns numFolds*numRepeats losses for subset, repeat-major.
func (e *CrossValidationEvaluator) Evaluate(
	ctx context.Context,
	name string,
	subset featureset.Subset,
	ds *dataset.Dataset,
	spec ports.ClassifierSpec,
	numFolds, numRepeats int,
) (*comparison.SubsetResult, error) {
	if subset.Len() == 0 {
		return nil, &core.EmptyFeatureSubsetError{FeatureSet: name}
	}
	if err := ds.RequireLabels(); err != nil {
		return nil, err
	}
	if numRepeats < 1 {
		return nil, fmt.Errorf("feature set %q: numRepeats must be at least 1, got %d", name, numRepeats)
	}

	x, err := ds.SelectColumns(subset)
	if err != nil {
		return nil, fmt.Errorf("feature set %q: %w", name, err)
	}

	result := &comparison.SubsetResult{
		Name:         name,
		FeatureCount: subset.Len(),
		Losses:       make([]float64, 0, numFolds*numRepeats),
	}

	for r := 0; r < numRepeats; r++ {
		assignment, err := e.Assignment(ctx, ds.Labels, numFolds, r)
		if err != nil {
			return nil, err
		}

		for f := 0; f < numFolds; f++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			train, test := assignment.Split(f)
			score, err := e.classifier.TrainAndScore(ctx,
				dataset.SelectRows(x, train), ds.Labels.Select(train),
				dataset.SelectRows(x, test), ds.Labels.Select(test),
				spec)
			if err != nil {
				return nil, &core.ClassifierEvaluationError{FeatureSet: name, Repeat: r, Fold: f, Cause: err}
			}

			if result.LossName == "" {
				result.LossName = score.LossName
			} else if score.LossName != result.LossName {
				return nil, &core.InconsistentMetricError{FeatureSet: name, Expected: result.LossName, Got: score.LossName}
			}
			result.Losses = append(result.Losses, score.Loss)
		}
		e.logger.Trace("%s: repeat %d/%d done", name, r+1, numRepeats)
	}

	return result, nil
}
