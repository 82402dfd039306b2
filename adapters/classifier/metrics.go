package classifier

import (
	"fmt"

	"fscompare/domain/core"
	"fscompare/domain/dataset"
)

// Loss metric names.
const (
	LossAccuracy         = "accuracy"
	LossBalancedAccuracy = "balancedAccuracy"
)

// LossNames lists supported metrics.
var LossNames = []string{LossAccuracy, LossBalancedAccuracy}

// ValidateLossName rejects metrics this package cannot compute.
func ValidateLossName(name string) error {
	for _, n := range LossNames {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", core.ErrUnsupportedLossMetric, name)
}

// ComputeLoss scores predictions against truth as a percentage.
func ComputeLoss(name string, predicted, actual dataset.Labels) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("%d predictions for %d samples", len(predicted), len(actual))
	}
	if len(actual) == 0 {
		return 0, fmt.Errorf("no test samples")
	}

	switch name {
	case LossAccuracy:
		correct := 0
		for i := range actual {
			if predicted[i] == actual[i] {
				correct++
			}
		}
		return 100 * float64(correct) / float64(len(actual)), nil

	case LossBalancedAccuracy:
		// mean per-class recall over classes present in the test fold
		total := make(map[int]int)
		hit := make(map[int]int)
		for i, y := range actual {
			total[y]++
			if predicted[i] == y {
				hit[y]++
			}
		}
		sum := 0.0
		for c, n := range total {
			sum += float64(hit[c]) / float64(n)
		}
		return 100 * sum / float64(len(total)), nil

	default:
		return 0, fmt.Errorf("%w: %q", core.ErrUnsupportedLossMetric, name)
	}
}
