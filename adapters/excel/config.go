package excel

// SourceConfig describes where a dataset's parts live.
type SourceConfig struct {
	// Root confines selectors to a directory: they must be relative paths
	// that stay inside it. Empty means selectors are used as given.
	Root          string `json:"root"`
	// FeaturesFile holds the feature catalog (id, name, keywords) for CSV
	// datasets. Workbooks carry it in FeaturesSheet instead.
	FeaturesFile  string `json:"features_file"`
	DataSheet     string `json:"data_sheet"`
	FeaturesSheet string `json:"features_sheet"`
	LabelColumn   string `json:"label_column"`
	SampleColumn  string `json:"sample_column"`
}

// DefaultSourceConfig returns the layout written by the feature extraction step
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		DataSheet:     "Data",
		FeaturesSheet: "Features",
		LabelColumn:   "group",
		SampleColumn:  "sample",
	}
}
