package testkit

import (
	"fmt"
	"math/rand"

	"fscompare/adapters/canonical"
	"fscompare/domain/dataset"
	"fscompare/domain/featureset"

	"gonum.org/v1/gonum/mat"
)

// SyntheticConfig configures the synthetic labeled feature matrix generator
type SyntheticConfig struct {
	Name            string  `json:"name"`
	SamplesPerClass []int   `json:"samples_per_class"`
	FeatureCount    int     `json:"feature_count"`
	Informative     float64 `json:"informative"` // fraction of features whose mean shifts with the class
	Separation      float64 `json:"separation"`  // class mean shift in noise standard deviations
	Seed            int64   `json:"seed"`
	Unlabeled       bool    `json:"unlabeled"`
}

// DefaultSyntheticConfig returns sensible defaults for synthetic data generation
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Name:            "synthetic",
		SamplesPerClass: []int{30, 30, 30},
		FeatureCount:    40,
		Informative:     0.5,
		Separation:      1.5,
		Seed:            42,
	}
}

// tagCycle assigns dependency keywords to synthetic features in rotation.
var tagCycle = [][]featureset.Keyword{
	nil,
	{featureset.KeywordLengthDependent},
	{featureset.KeywordLocationDependent},
	{featureset.KeywordSpreadDependent},
	{featureset.KeywordLengthDependent, featureset.KeywordLocationDependent},
}

// GenerateDataset builds a dataset whose first 22 features carry the catch22
// names, so name-based canonical providers resolve against it.
func GenerateDataset(cfg SyntheticConfig) (*dataset.Dataset, error) {
	if cfg.FeatureCount < 1 {
		return nil, fmt.Errorf("synthetic dataset needs at least one feature")
	}
	total := 0
	for _, n := range cfg.SamplesPerClass {
		total += n
	}
	if total == 0 {
		return nil, fmt.Errorf("synthetic dataset needs at least one sample")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	features := make([]featureset.Feature, cfg.FeatureCount)
	for j := range features {
		name := fmt.Sprintf("feature_%03d", j+1)
		if j < len(canonical.Catch22Names) {
			name = canonical.Catch22Names[j]
		}
		features[j] = featureset.Feature{
			ID:       featureset.FeatureID(j + 1),
			Name:     name,
			Keywords: tagCycle[j%len(tagCycle)],
		}
	}
	catalog, err := featureset.NewCatalog(features)
	if err != nil {
		return nil, err
	}

	informative := int(cfg.Informative * float64(cfg.FeatureCount))
	labels := make(dataset.Labels, 0, total)
	data := make([]float64, 0, total*cfg.FeatureCount)
	for c, n := range cfg.SamplesPerClass {
		for s := 0; s < n; s++ {
			labels = append(labels, c+1)
			for j := 0; j < cfg.FeatureCount; j++ {
				v := rng.NormFloat64()
				// spread the informative features over every tag group
				if j%2 == 0 && j/2 < informative {
					v += cfg.Separation * float64(c)
				}
				data = append(data, v)
			}
		}
	}

	matrix := mat.NewDense(total, cfg.FeatureCount, data)
	if cfg.Unlabeled {
		labels = nil
	}
	name := cfg.Name
	if name == "" {
		name = "synthetic"
	}
	return dataset.New(name, catalog, matrix, labels)
}

// MustGenerateDataset is GenerateDataset for tests
func MustGenerateDataset(cfg SyntheticConfig) *dataset.Dataset {
	ds, err := GenerateDataset(cfg)
	if err != nil {
		panic(err)
	}
	return ds
}
