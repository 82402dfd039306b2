package app

import (
	"context"
	"errors"
	"testing"

	"fscompare/adapters/canonical"
	"fscompare/adapters/classifier"
	"fscompare/domain/comparison"
	"fscompare/domain/core"
	"fscompare/domain/crossval"
	"fscompare/domain/featureset"
	"fscompare/internal/testkit"
	"fscompare/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReporter is a mock implementation of ports.ReporterPort
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Report(ctx context.Context, report *comparison.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func newTestService(t *testing.T, clf ports.ClassifierPort, repo ports.ComparisonRepository, reporters ...ports.ReporterPort) (*ComparisonService, *testkit.SyntheticSource) {
	t.Helper()
	src, err := testkit.NewSyntheticSource()
	require.NoError(t, err)
	svc := NewComparisonService(src, clf, testkit.NewRNGAdapter(),
		canonical.NewNamedProvider(canonical.DefaultNameSets()),
		crossval.NewPlanner(crossval.DefaultMaxFolds), repo, nil, reporters...)
	return svc, src
}

func defaultRequest() ComparisonRequest {
	return ComparisonRequest{
		Dataset:    testkit.SyntheticSelector,
		Classifier: ports.ClassifierSpec{Name: classifier.NearestCentroid, LossName: classifier.LossAccuracy},
		NumRepeats: 2,
		Seed:       11,
	}
}

func TestRun_DefaultBattery(t *testing.T) {
	repo := testkit.NewInMemoryComparisonRepository()
	reporter := &MockReporter{}
	reporter.On("Report", mock.Anything, mock.AnythingOfType("*comparison.Report")).Return(nil).Once()

	svc, _ := newTestService(t, classifier.NewEngine(), repo, reporter)
	report, err := svc.Run(context.Background(), defaultRequest())
	require.NoError(t, err)
	reporter.AssertExpectations(t)

	assert.Equal(t, featureset.DefaultBattery, report.Names())
	assert.Equal(t, 10, report.NumFolds)
	assert.Equal(t, 2, report.NumRepeats)
	assert.Equal(t, classifier.LossAccuracy, report.LossName)
	assert.False(t, report.ProtocolHash.IsEmpty())

	for _, row := range report.Rows {
		assert.Len(t, row.Losses, 20, row.Name)
		assert.Greater(t, row.FeatureCount, 0, row.Name)
	}
	catch22, ok := findRow(report, featureset.NameCatch22)
	require.True(t, ok)
	assert.Equal(t, 22, catch22.FeatureCount)
	all, _ := findRow(report, featureset.NameAll)
	assert.Equal(t, 40, all.FeatureCount)
	// informative features separate the classes well above chance
	assert.Greater(t, all.Summary.Mean, 60.0)

	stored, err := svc.GetComparison(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, stored.ID)

	listed, err := svc.ListComparisons(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func findRow(r *comparison.Report, name string) (comparison.Row, bool) {
	for _, row := range r.Rows {
		if row.Name == name {
			return row, true
		}
	}
	return comparison.Row{}, false
}

func TestRun_Deterministic(t *testing.T) {
	svc, _ := newTestService(t, classifier.NewEngine(), nil)
	req := defaultRequest()
	req.FeatureSets = []string{"all", "lengthDependent"}

	a, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	for i := range a.Rows {
		assert.Equal(t, a.Rows[i].Losses, b.Rows[i].Losses)
	}
	assert.Equal(t, a.ProtocolHash, b.ProtocolHash)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	svc, _ := newTestService(t, classifier.NewEngine(), nil)
	req := defaultRequest()

	seq, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	req.Parallelism = 4
	par, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, seq.Names(), par.Names())
	for i := range seq.Rows {
		assert.Equal(t, seq.Rows[i].Losses, par.Rows[i].Losses, seq.Rows[i].Name)
	}
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown feature set", func(t *testing.T) {
		svc, _ := newTestService(t, &testkit.ConstantClassifier{LossName: "accuracy"}, nil)
		req := defaultRequest()
		req.FeatureSets = []string{"all", "bogus"}
		_, err := svc.Run(ctx, req)

		var unknown *core.UnknownFeatureSetError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "bogus", unknown.Name)
	})

	t.Run("missing labels", func(t *testing.T) {
		svc, src := newTestService(t, &testkit.ConstantClassifier{LossName: "accuracy"}, nil)
		cfg := testkit.DefaultSyntheticConfig()
		cfg.Unlabeled = true
		src.Register("unlabeled", testkit.MustGenerateDataset(cfg))

		req := defaultRequest()
		req.Dataset = "unlabeled"
		_, err := svc.Run(ctx, req)
		assert.ErrorIs(t, err, core.ErrMissingLabels)
	})

	t.Run("class too small", func(t *testing.T) {
		svc, src := newTestService(t, &testkit.ConstantClassifier{LossName: "accuracy"}, nil)
		cfg := testkit.DefaultSyntheticConfig()
		cfg.SamplesPerClass = []int{1, 10}
		src.Register("tiny", testkit.MustGenerateDataset(cfg))

		req := defaultRequest()
		req.Dataset = "tiny"
		_, err := svc.Run(ctx, req)

		var small *core.InsufficientClassSizeError
		require.True(t, errors.As(err, &small))
		assert.Equal(t, 1, small.Class)
		assert.Equal(t, 1, small.Size)
	})

	t.Run("classifier failure aborts without saving", func(t *testing.T) {
		for _, parallelism := range []int{1, 3} {
			repo := testkit.NewInMemoryComparisonRepository()
			reporter := &MockReporter{}
			clf := &testkit.ScriptedClassifier{LossName: "accuracy", FailOnCall: 3}
			svc, _ := newTestService(t, clf, repo, reporter)

			req := defaultRequest()
			req.Parallelism = parallelism
			_, err := svc.Run(ctx, req)
			assert.ErrorIs(t, err, core.ErrClassifierEvaluation)

			listed, err := repo.List(ctx, 10, 0)
			require.NoError(t, err)
			assert.Empty(t, listed)
			reporter.AssertNotCalled(t, "Report", mock.Anything, mock.Anything)
		}
	})

	t.Run("reporter failure", func(t *testing.T) {
		reporter := &MockReporter{}
		reporter.On("Report", mock.Anything, mock.Anything).Return(errors.New("disk full"))
		svc, _ := newTestService(t, &testkit.ConstantClassifier{Loss: 50, LossName: "accuracy"}, nil, reporter)
		_, err := svc.Run(ctx, defaultRequest())
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("unknown dataset", func(t *testing.T) {
		svc, _ := newTestService(t, &testkit.ConstantClassifier{LossName: "accuracy"}, nil)
		req := defaultRequest()
		req.Dataset = "nope"
		_, err := svc.Run(ctx, req)
		assert.True(t, core.IsNotFoundError(err))
	})
}

func TestDescribeFeatureSets(t *testing.T) {
	svc, _ := newTestService(t, classifier.NewEngine(), nil)
	sets, err := svc.DescribeFeatureSets(context.Background(), testkit.SyntheticSelector, nil)
	require.NoError(t, err)
	require.Len(t, sets, len(featureset.DefaultBattery))

	counts := make(map[string]int)
	for _, s := range sets {
		counts[s.Name] = s.FeatureCount
		assert.Len(t, s.FeatureIDs, s.FeatureCount)
	}
	assert.Equal(t, 40, counts["all"])
	assert.Equal(t, 40, counts["lengthDependent"]+counts["notLengthDependent"])
	assert.Equal(t, 40, counts["spreadDependent"]+counts["notSpreadDependent"])
	assert.Equal(t, []string{featureset.NameCatch22}, svc.CanonicalNames())
}

func TestDescribeFeatureSets_ReportsMissingCanonicalNames(t *testing.T) {
	svc, src := newTestService(t, classifier.NewEngine(), nil)
	cfg := testkit.DefaultSyntheticConfig()
	cfg.Name = "narrow"
	cfg.FeatureCount = 10
	src.Register("narrow", testkit.MustGenerateDataset(cfg))

	sets, err := svc.DescribeFeatureSets(context.Background(), "narrow", []string{featureset.NameCatch22, "all"})
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, 10, sets[0].FeatureCount)
	assert.Equal(t, 12, sets[0].Dropped)
	assert.Len(t, sets[0].Missing, 12)
	assert.Zero(t, sets[1].Dropped)
	assert.Empty(t, sets[1].Missing)
}

func TestPlanFolds(t *testing.T) {
	svc, _ := newTestService(t, classifier.NewEngine(), nil)
	plan, err := svc.PlanFolds(context.Background(), testkit.SyntheticSelector, 2, 5)
	require.NoError(t, err)

	assert.Equal(t, 10, plan.NumFolds)
	assert.Equal(t, []int{30, 30, 30}, plan.ClassCounts)
	require.Len(t, plan.Repeats, 2)
	for _, a := range plan.Repeats {
		require.NoError(t, a.Validate())
		for k := 0; k < a.NumFolds(); k++ {
			assert.Len(t, a.Fold(k), 9)
		}
	}
}
