package comparison

// SubsetResult is the output of cross-validating one feature set.
// Losses are ordered repeat-major, fold-minor.
type SubsetResult struct {
	Name         string    `json:"name"`
	FeatureCount int       `json:"feature_count"`
	Losses       []float64 `json:"losses"`
	LossName     string    `json:"loss_name"`
}

// Loss returns the value for repeat r, fold f.
func (s SubsetResult) Loss(numFolds, r, f int) float64 {
	return s.Losses[r*numFolds+f]
}
