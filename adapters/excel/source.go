package excel

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"fscompare/domain/core"
	"fscompare/domain/dataset"
	"fscompare/domain/featureset"

	"gonum.org/v1/gonum/mat"
)

// Source implements ports.DatasetSource for workbooks and CSV files. The
// selector is the path of the data file.
//
// The data table has one row per sample: an optional sample column, a label
// column and one numeric column per feature. The features table lists id,
// name and keywords for each feature column; without it, features are
// numbered in column order and carry no keywords.
type Source struct {
	config SourceConfig
}

// NewSource creates a file-backed dataset source
func NewSource(config SourceConfig) *Source {
	def := DefaultSourceConfig()
	if config.DataSheet == "" {
		config.DataSheet = def.DataSheet
	}
	if config.FeaturesSheet == "" {
		config.FeaturesSheet = def.FeaturesSheet
	}
	if config.LabelColumn == "" {
		config.LabelColumn = def.LabelColumn
	}
	if config.SampleColumn == "" {
		config.SampleColumn = def.SampleColumn
	}
	return &Source{config: config}
}

// Load implements ports.DatasetSource.
func (s *Source) Load(ctx context.Context, selector string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(selector)
	if err != nil {
		return nil, err
	}
	reader := NewTableReader(path)

	data, err := reader.ReadTable(s.config.DataSheet)
	if err != nil {
		return nil, err
	}
	features, err := s.readFeatures(reader)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(selector), filepath.Ext(selector))
	ds, err := buildDataset(name, data, features, s.config)
	if err != nil {
		return nil, err
	}
	log.Printf("[ExcelSource] loaded %s: %d samples, %d features, labeled=%t", name, ds.NumSamples(), ds.Catalog.Len(), ds.HasLabels())
	return ds, nil
}

// resolve maps a selector to a file path under Root.
func (s *Source) resolve(selector string) (string, error) {
	path := selector
	if s.config.Root != "" {
		if filepath.IsAbs(selector) || !filepath.IsLocal(selector) {
			return "", core.NewSelectorError(selector, "must be a relative path inside the data directory")
		}
		path = filepath.Join(s.config.Root, selector)
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", core.NewNotFoundError("dataset", selector)
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", core.NewSelectorError(selector, "is a directory")
	}
	return path, nil
}

// readFeatures returns nil when no catalog table exists.
func (s *Source) readFeatures(data *TableReader) (*RawTable, error) {
	if s.config.FeaturesFile != "" {
		return NewTableReader(s.config.FeaturesFile).ReadTable(s.config.FeaturesSheet)
	}
	ok, err := data.HasSheet(s.config.FeaturesSheet)
	if err != nil || !ok {
		return nil, err
	}
	return data.ReadTable(s.config.FeaturesSheet)
}

func buildDataset(name string, data, features *RawTable, cfg SourceConfig) (*dataset.Dataset, error) {
	labelCol := data.Column(cfg.LabelColumn)
	sampleCol := -1
	if cfg.SampleColumn != "" {
		sampleCol = data.Column(cfg.SampleColumn)
	}

	var featureCols []int
	for j := range data.Headers {
		if j != labelCol && j != sampleCol {
			featureCols = append(featureCols, j)
		}
	}
	if len(featureCols) == 0 {
		return nil, core.NewCatalogError("%s: no feature columns", name)
	}

	catalog, err := buildCatalog(data, featureCols, features)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	matrix := mat.NewDense(len(data.Rows), len(featureCols), nil)
	for i, row := range data.Rows {
		for j, col := range featureCols {
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: row %d, column %s is not a number", core.ErrInvalidMatrix, name, i+2, data.Headers[col])
			}
			matrix.Set(i, j, v)
		}
	}

	var (
		labels     dataset.Labels
		classNames []string
	)
	if labelCol >= 0 {
		raw := make([]string, len(data.Rows))
		for i, row := range data.Rows {
			raw[i] = row[labelCol]
		}
		labels, classNames, err = parseLabels(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	ds, err := dataset.New(name, catalog, matrix, labels)
	if err != nil {
		return nil, err
	}
	ds.ClassName = classNames
	return ds, nil
}

// buildCatalog orders features by data column. Feature metadata is matched to
// columns by name.
func buildCatalog(data *RawTable, featureCols []int, features *RawTable) (*featureset.Catalog, error) {
	type meta struct {
		id   featureset.FeatureID
		tags []string
	}
	byName := make(map[string]meta)

	if features != nil {
		idCol, nameCol, kwCol := features.Column("id"), features.Column("name"), features.Column("keywords")
		if nameCol < 0 {
			return nil, core.NewCatalogError("features table has no name column")
		}
		for i, row := range features.Rows {
			m := meta{id: featureset.FeatureID(i + 1)}
			if idCol >= 0 {
				id, err := strconv.Atoi(row[idCol])
				if err != nil {
					return nil, core.NewCatalogError("features row %d: id is not an integer", i+2)
				}
				m.id = featureset.FeatureID(id)
			}
			if kwCol >= 0 {
				m.tags = featureset.SplitTagList(row[kwCol])
			}
			byName[row[nameCol]] = m
		}
	}

	out := make([]featureset.Feature, len(featureCols))
	for j, col := range featureCols {
		name := data.Headers[col]
		f := featureset.Feature{ID: featureset.FeatureID(j + 1), Name: name}
		if features != nil {
			m, ok := byName[name]
			if !ok {
				return nil, core.NewCatalogError("column %s is not in the features table", name)
			}
			kws, tags, err := featureset.ParseTags(m.tags)
			if err != nil {
				return nil, fmt.Errorf("feature %s: %w", name, err)
			}
			f.ID, f.Keywords, f.Tags = m.id, kws, tags
		}
		out[j] = f
	}
	return featureset.NewCatalog(out)
}

// parseLabels accepts positive integer labels or class names. Names are
// numbered 1..k in sorted order. An all-empty column means unlabeled.
func parseLabels(raw []string) (dataset.Labels, []string, error) {
	empty := 0
	numeric := true
	for _, v := range raw {
		if v == "" {
			empty++
			continue
		}
		if _, err := strconv.Atoi(v); err != nil {
			numeric = false
		}
	}
	switch {
	case empty == len(raw):
		return nil, nil, nil
	case empty > 0:
		return nil, nil, fmt.Errorf("%w: %d of %d samples have no group", core.ErrInvalidLabels, empty, len(raw))
	}

	labels := make(dataset.Labels, len(raw))
	if numeric {
		for i, v := range raw {
			labels[i], _ = strconv.Atoi(v)
		}
		return labels, nil, nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, v := range raw {
		if !seen[v] {
			seen[v] = true
			names = append(names, v)
		}
	}
	sort.Strings(names)
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i + 1
	}
	for i, v := range raw {
		labels[i] = index[v]
	}
	return labels, names, nil
}
