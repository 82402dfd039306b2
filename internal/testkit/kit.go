package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fscompare/domain/comparison"
	"fscompare/domain/core"
	"fscompare/domain/dataset"
)

// SyntheticSelector is the dataset selector served by SyntheticSource.
const SyntheticSelector = "synthetic"

// SyntheticSource is a DatasetSource serving generated datasets by name.
type SyntheticSource struct {
	mu       sync.RWMutex
	datasets map[string]*dataset.Dataset
}

// NewSyntheticSource registers the default synthetic dataset under "synthetic".
func NewSyntheticSource() (*SyntheticSource, error) {
	ds, err := GenerateDataset(DefaultSyntheticConfig())
	if err != nil {
		return nil, err
	}
	s := &SyntheticSource{datasets: make(map[string]*dataset.Dataset)}
	s.Register(SyntheticSelector, ds)
	return s, nil
}

// Register makes ds loadable by selector.
func (s *SyntheticSource) Register(selector string, ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[selector] = ds
}

// Load implements ports.DatasetSource.
func (s *SyntheticSource) Load(ctx context.Context, selector string) (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[selector]
	if !ok {
		return nil, core.NewNotFoundError("dataset", selector)
	}
	return ds, nil
}

// InMemoryComparisonRepository stores reports in memory
type InMemoryComparisonRepository struct {
	mu      sync.RWMutex
	reports map[core.ComparisonID]*comparison.Report
}

// NewInMemoryComparisonRepository creates an empty repository
func NewInMemoryComparisonRepository() *InMemoryComparisonRepository {
	return &InMemoryComparisonRepository{reports: make(map[core.ComparisonID]*comparison.Report)}
}

// Save implements ports.ComparisonRepository.
func (r *InMemoryComparisonRepository) Save(ctx context.Context, report *comparison.Report) error {
	if report == nil || report.ID == "" {
		return fmt.Errorf("report without id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = report
	return nil
}

// Get implements ports.ComparisonRepository.
func (r *InMemoryComparisonRepository) Get(ctx context.Context, id core.ComparisonID) (*comparison.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrComparisonNotFound, id)
	}
	return report, nil
}

// List implements ports.ComparisonRepository, newest first.
func (r *InMemoryComparisonRepository) List(ctx context.Context, limit, offset int) ([]*comparison.Report, error) {
	r.mu.RLock()
	all := make([]*comparison.Report, 0, len(r.reports))
	for _, report := range r.reports {
		all = append(all, report)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []*comparison.Report{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
