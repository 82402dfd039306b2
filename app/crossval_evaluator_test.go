package app

import (
	"context"
	"errors"
	"testing"

	"fscompare/domain/core"
	"fscompare/domain/crossval"
	"fscompare/domain/dataset"
	"fscompare/domain/featureset"
	"fscompare/internal/testkit"
	"fscompare/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func smallDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	cfg := testkit.DefaultSyntheticConfig()
	cfg.SamplesPerClass = []int{6, 6}
	cfg.FeatureCount = 10
	ds, err := testkit.GenerateDataset(cfg)
	require.NoError(t, err)
	return ds
}

func newTestEvaluator(classifier ports.ClassifierPort) *CrossValidationEvaluator {
	return NewCrossValidationEvaluator(crossval.NewPlanner(crossval.DefaultMaxFolds), classifier, testkit.NewRNGAdapter(), 7, nil)
}

func TestEvaluate_EmptySubsetFails(t *testing.T) {
	catalog, err := featureset.NewCatalog([]featureset.Feature{
		{ID: 1, Name: "a", Keywords: []featureset.Keyword{featureset.KeywordLengthDependent}},
		{ID: 2, Name: "b"},
	})
	require.NoError(t, err)
	ds, err := dataset.New("nospread", catalog, mat.NewDense(4, 2, nil), dataset.Labels{1, 1, 2, 2})
	require.NoError(t, err)

	subset, err := featureset.NewResolver(nil).Resolve("spreadDependent", catalog)
	require.NoError(t, err)
	require.Equal(t, 0, subset.Len())

	clf := &testkit.ScriptedClassifier{LossName: "accuracy"}
	_, err = newTestEvaluator(clf).Evaluate(context.Background(), "spreadDependent", subset, ds, ports.ClassifierSpec{}, 2, 1)

	var empty *core.EmptyFeatureSubsetError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "spreadDependent", empty.FeatureSet)
	assert.Equal(t, 0, clf.Calls())
}

func TestEvaluate_LossLayout(t *testing.T) {
	ds := smallDataset(t)
	subset := featureset.NewSubset([]featureset.FeatureID{1, 4, 9})
	clf := &testkit.RecordingClassifier{LossName: "accuracy"}

	result, err := newTestEvaluator(clf).Evaluate(context.Background(), "mine", subset, ds, ports.ClassifierSpec{}, 3, 2)
	require.NoError(t, err)

	assert.Equal(t, "mine", result.Name)
	assert.Equal(t, 3, result.FeatureCount)
	assert.Equal(t, "accuracy", result.LossName)
	assert.Equal(t, []float64{3, 3, 3, 3, 3, 3}, result.Losses)

	splits := clf.Splits()
	require.Len(t, splits, 6)
	for r := 0; r < 2; r++ {
		tested := 0
		for f := 0; f < 3; f++ {
			s := splits[r*3+f]
			assert.Equal(t, 12, s.TrainRows+s.TestRows)
			assert.Equal(t, 3, s.Columns)
			// 6 samples per class over 3 folds: every test fold holds 2 of each class
			assert.Equal(t, []int{2, 2}, s.TestLabels.ClassCounts(2))
			tested += s.TestRows
		}
		assert.Equal(t, 12, tested)
	}
}

func TestEvaluate_SubsetsSharePartitions(t *testing.T) {
	ds := smallDataset(t)
	ctx := context.Background()

	a := &testkit.RecordingClassifier{LossName: "accuracy"}
	b := &testkit.RecordingClassifier{LossName: "accuracy"}
	_, err := newTestEvaluator(a).Evaluate(ctx, "a", featureset.NewSubset([]featureset.FeatureID{1}), ds, ports.ClassifierSpec{}, 3, 2)
	require.NoError(t, err)
	_, err = newTestEvaluator(b).Evaluate(ctx, "b", featureset.NewSubset([]featureset.FeatureID{2, 3}), ds, ports.ClassifierSpec{}, 3, 2)
	require.NoError(t, err)

	sa, sb := a.Splits(), b.Splits()
	require.Len(t, sb, len(sa))
	for i := range sa {
		assert.Equal(t, sa[i].TestRows, sb[i].TestRows)
		assert.Equal(t, sa[i].TestLabels, sb[i].TestLabels)
	}

	ev := newTestEvaluator(a)
	first, err := ev.Assignment(ctx, ds.Labels, 3, 0)
	require.NoError(t, err)
	again, err := ev.Assignment(ctx, ds.Labels, 3, 0)
	require.NoError(t, err)
	for k := 0; k < 3; k++ {
		assert.Equal(t, first.Fold(k), again.Fold(k))
	}
}

func TestEvaluate_ClassifierFailure(t *testing.T) {
	ds := smallDataset(t)
	clf := &testkit.ScriptedClassifier{LossName: "accuracy", FailOnCall: 5}

	_, err := newTestEvaluator(clf).Evaluate(context.Background(), "all", featureset.NewSubset([]featureset.FeatureID{1, 2}), ds, ports.ClassifierSpec{}, 3, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrClassifierEvaluation)

	var evalErr *core.ClassifierEvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "all", evalErr.FeatureSet)
	assert.Equal(t, 1, evalErr.Repeat)
	assert.Equal(t, 1, evalErr.Fold)
	assert.Equal(t, 5, clf.Calls())
}

// switchingClassifier changes its metric name after the first call.
type switchingClassifier struct{ calls int }

func (c *switchingClassifier) TrainAndScore(ctx context.Context, trainX mat.Matrix, trainY dataset.Labels, testX mat.Matrix, testY dataset.Labels, spec ports.ClassifierSpec) (ports.Score, error) {
	c.calls++
	if c.calls == 1 {
		return ports.Score{Loss: 50, LossName: "accuracy"}, nil
	}
	return ports.Score{Loss: 0.5, LossName: "f1"}, nil
}

func TestEvaluate_MetricChangeWithinSubset(t *testing.T) {
	ds := smallDataset(t)
	_, err := newTestEvaluator(&switchingClassifier{}).Evaluate(context.Background(), "all", featureset.NewSubset([]featureset.FeatureID{1}), ds, ports.ClassifierSpec{}, 3, 1)
	assert.ErrorIs(t, err, core.ErrInconsistentMetric)
}

func TestEvaluate_Cancelled(t *testing.T) {
	ds := smallDataset(t)
	ctx, cancel := context.WithCancel(context.Background())
	clf := &testkit.ScriptedClassifier{
		LossName: "accuracy",
		LossFn: func(call int, _, _ mat.Matrix) float64 {
			if call == 2 {
				cancel()
			}
			return 1
		},
	}

	_, err := newTestEvaluator(clf).Evaluate(ctx, "all", featureset.NewSubset([]featureset.FeatureID{1}), ds, ports.ClassifierSpec{}, 3, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, clf.Calls())
}

func TestEvaluate_Unlabeled(t *testing.T) {
	cfg := testkit.DefaultSyntheticConfig()
	cfg.Unlabeled = true
	ds := testkit.MustGenerateDataset(cfg)

	_, err := newTestEvaluator(&testkit.ConstantClassifier{}).Evaluate(context.Background(), "all", featureset.NewSubset([]featureset.FeatureID{1}), ds, ports.ClassifierSpec{}, 3, 1)
	assert.ErrorIs(t, err, core.ErrMissingLabels)
}
