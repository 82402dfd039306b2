package app

import (
	"context"
	"fmt"
	"time"

	"fscompare/domain/comparison"
	"fscompare/domain/core"
	"fscompare/domain/crossval"
	"fscompare/domain/dataset"
	"fscompare/domain/featureset"
	"fscompare/internal"
	"fscompare/ports"

	"golang.org/x/sync/errgroup"
)

// ComparisonRequest describes one run over a battery of feature sets.
type ComparisonRequest struct {
	Dataset     string               `json:"dataset" validate:"required"`
	FeatureSets []string             `json:"feature_sets"`
	Classifier  ports.ClassifierSpec `json:"classifier"`
	NumRepeats  int                  `json:"num_repeats" validate:"gte=1,lte=100"`
	Seed        int64                `json:"seed"`
	Parallelism int                  `json:"parallelism" validate:"gte=0,lte=64"`
}

// FoldPlan describes the partitions a run would use without training anything.
type FoldPlan struct {
	NumFolds    int                    `json:"num_folds"`
	NumRepeats  int                    `json:"num_repeats"`
	ClassCounts []int                  `json:"class_counts"`
	Repeats     []*crossval.Assignment `json:"repeats"`
}

// ComparisonService orchestrates load, resolve, evaluate, aggregate and report.
type ComparisonService struct {
	source     ports.DatasetSource
	classifier ports.ClassifierPort
	rngPort    ports.RNGPort
	canonical  ports.CanonicalSetProvider
	planner    *crossval.Planner
	repository ports.ComparisonRepository
	reporters  []ports.ReporterPort
	logger     *internal.Logger
}

// NewComparisonService creates the service. repository and reporters are optional.
func NewComparisonService(
	source ports.DatasetSource,
	classifier ports.ClassifierPort,
	rngPort ports.RNGPort,
	canonical ports.CanonicalSetProvider,
	planner *crossval.Planner,
	repository ports.ComparisonRepository,
	logger *internal.Logger,
	reporters ...ports.ReporterPort,
) *ComparisonService {
	if planner == nil {
		planner = crossval.NewPlanner(crossval.DefaultMaxFolds)
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &ComparisonService{
		source:     source,
		classifier: classifier,
		rngPort:    rngPort,
		canonical:  canonical,
		planner:    planner,
		repository: repository,
		reporters:  reporters,
		logger:     logger.WithComponent("comparison"),
	}
}

// Repository returns the configured repository, or nil.
func (s *ComparisonService) Repository() ports.ComparisonRepository {
	return s.repository
}

// resolver binds name-based canonical sets to the dataset's catalog.
func (s *ComparisonService) resolver(catalog *featureset.Catalog) *featureset.Resolver {
	if s.canonical == nil {
		return featureset.NewResolver(nil)
	}
	if binder, ok := s.canonical.(ports.CatalogBinder); ok {
		return featureset.NewResolver(binder.ForCatalog(catalog))
	}
	return featureset.NewResolver(s.canonical)
}

// CanonicalNames lists the canonical sets known to the service.
func (s *ComparisonService) CanonicalNames() []string {
	if s.canonical == nil {
		return nil
	}
	return s.canonical.Names()
}

// Run executes a full comparison and returns the finalized report. Nothing is
// persisted or reported when any stage fails.
func (s *ComparisonService) Run(ctx context.Context, req ComparisonRequest) (*comparison.Report, error) {
	start := time.Now()
	names := req.FeatureSets
	if len(names) == 0 {
		names = featureset.DefaultBattery
	}
	if req.NumRepeats < 1 {
		return nil, fmt.Errorf("numRepeats must be at least 1, got %d", req.NumRepeats)
	}

	ds, err := s.source.Load(ctx, req.Dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", req.Dataset, err)
	}
	if err := ds.RequireLabels(); err != nil {
		return nil, err
	}

	resolutions, err := s.resolver(ds.Catalog).ResolveAll(names, ds.Catalog)
	if err != nil {
		return nil, err
	}
	for _, res := range resolutions {
		if len(res.Dropped) > 0 {
			s.logger.Debug("%s: %d canonical ids not in catalog: %v", res.Spec.Name, len(res.Dropped), res.Dropped)
		}
		if len(res.MissingNames) > 0 {
			s.logger.Debug("%s: %d canonical features not in catalog: %v", res.Spec.Name, len(res.MissingNames), res.MissingNames)
		}
		if res.Subset.Len() == 0 {
			return nil, &core.EmptyFeatureSubsetError{FeatureSet: res.Spec.Name}
		}
	}

	numFolds, err := s.planner.ChooseFoldCount(ds.Labels, ds.Labels.NumClasses())
	if err != nil {
		return nil, err
	}
	s.logger.Info("comparing %d feature sets on %s (%d samples, %d folds x %d repeats, classifier %s)",
		len(resolutions), ds.Name, ds.NumSamples(), numFolds, req.NumRepeats, req.Classifier.Name)

	evaluator := NewCrossValidationEvaluator(s.planner, s.classifier, s.rngPort, req.Seed, s.logger)
	results, err := s.evaluateAll(ctx, evaluator, resolutions, ds, req, numFolds)
	if err != nil {
		return nil, err
	}

	matrix, err := comparison.Aggregate(results, numFolds, req.NumRepeats)
	if err != nil {
		return nil, err
	}

	protocol := core.ComputeProtocolHash(ds.Labels, numFolds, req.NumRepeats, req.Seed, req.Classifier.Name)
	report := comparison.NewReport(core.NewComparisonID(), ds.Name, req.Classifier.Name, req.Seed, protocol, matrix)

	if s.repository != nil {
		if err := s.repository.Save(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to save comparison %s: %w", report.ID, err)
		}
	}
	for _, reporter := range s.reporters {
		if err := reporter.Report(ctx, report); err != nil {
			return nil, fmt.Errorf("reporter failed: %w", err)
		}
	}

	s.logger.Info("comparison %s finished in %s (protocol %s)", report.ID, time.Since(start).Round(time.Millisecond), protocol.Short())
	return report, nil
}

// evaluateAll fills one result slot per resolution, in request order.
func (s *ComparisonService) evaluateAll(
	ctx context.Context,
	evaluator *CrossValidationEvaluator,
	resolutions []*featureset.Resolution,
	ds *dataset.Dataset,
	req ComparisonRequest,
	numFolds int,
) ([]comparison.SubsetResult, error) {
	results := make([]comparison.SubsetResult, len(resolutions))

	if req.Parallelism <= 1 {
		for i, res := range resolutions {
			r, err := evaluator.Evaluate(ctx, res.Spec.Name, res.Subset, ds, req.Classifier, numFolds, req.NumRepeats)
			if err != nil {
				return nil, err
			}
			results[i] = *r
			s.logger.Debug("%s: %d features, mean %.2f", res.Spec.Name, r.FeatureCount, comparison.Summarize(r.Losses).Mean)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Parallelism)
	for i, res := range resolutions {
		g.Go(func() error {
			r, err := evaluator.Evaluate(gctx, res.Spec.Name, res.Subset, ds, req.Classifier, numFolds, req.NumRepeats)
			if err != nil {
				return err
			}
			results[i] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FeatureSetSummary is one resolved feature set of a dataset.
type FeatureSetSummary struct {
	Name         string                 `json:"name"`
	Rule         string                 `json:"rule"`
	FeatureCount int                    `json:"feature_count"`
	FeatureIDs   []featureset.FeatureID `json:"feature_ids"`
	Dropped      int                    `json:"dropped,omitempty"`
	Missing      []string               `json:"missing,omitempty"`
}

// DescribeFeatureSets resolves names (default battery when empty) against a
// dataset without evaluating anything.
func (s *ComparisonService) DescribeFeatureSets(ctx context.Context, selector string, names []string) ([]FeatureSetSummary, error) {
	if len(names) == 0 {
		names = featureset.DefaultBattery
	}
	ds, err := s.source.Load(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", selector, err)
	}
	resolutions, err := s.resolver(ds.Catalog).ResolveAll(names, ds.Catalog)
	if err != nil {
		return nil, err
	}
	out := make([]FeatureSetSummary, len(resolutions))
	for i, res := range resolutions {
		out[i] = FeatureSetSummary{
			Name:         res.Spec.Name,
			Rule:         res.Spec.Rule.String(),
			FeatureCount: res.Subset.Len(),
			FeatureIDs:   append([]featureset.FeatureID{}, res.Subset...),
			Dropped:      res.DroppedCount(),
			Missing:      append([]string(nil), res.MissingNames...),
		}
	}
	return out, nil
}

// PlanFolds computes the fold count and per-repeat assignments a run with
// this seed would use.
func (s *ComparisonService) PlanFolds(ctx context.Context, selector string, numRepeats int, seed int64) (*FoldPlan, error) {
	ds, err := s.source.Load(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", selector, err)
	}
	if err := ds.RequireLabels(); err != nil {
		return nil, err
	}
	numClasses := ds.Labels.NumClasses()
	numFolds, err := s.planner.ChooseFoldCount(ds.Labels, numClasses)
	if err != nil {
		return nil, err
	}

	evaluator := NewCrossValidationEvaluator(s.planner, s.classifier, s.rngPort, seed, s.logger)
	plan := &FoldPlan{
		NumFolds:    numFolds,
		NumRepeats:  numRepeats,
		ClassCounts: ds.Labels.ClassCounts(numClasses),
	}
	for r := 0; r < numRepeats; r++ {
		a, err := evaluator.Assignment(ctx, ds.Labels, numFolds, r)
		if err != nil {
			return nil, err
		}
		plan.Repeats = append(plan.Repeats, a)
	}
	return plan, nil
}

// GetComparison loads a stored report.
func (s *ComparisonService) GetComparison(ctx context.Context, id core.ComparisonID) (*comparison.Report, error) {
	if s.repository == nil {
		return nil, core.ErrComparisonNotFound
	}
	return s.repository.Get(ctx, id)
}

// ListComparisons returns stored reports, newest first.
func (s *ComparisonService) ListComparisons(ctx context.Context, limit, offset int) ([]*comparison.Report, error) {
	if s.repository == nil {
		return []*comparison.Report{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repository.List(ctx, limit, offset)
}
