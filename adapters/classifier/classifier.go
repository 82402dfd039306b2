package classifier

import (
	"context"
	"fmt"
	"sort"

	"fscompare/domain/core"
	"fscompare/domain/dataset"
	"fscompare/ports"

	"gonum.org/v1/gonum/mat"
)

// Classifier names.
const (
	NearestCentroid    = "nearestCentroid"
	KNearestNeighbours = "knn"
	LinearDiscriminant = "linearDiscriminant"
)

type fitFunc func(x *mat.Dense, y dataset.Labels, spec ports.ClassifierSpec) (model, error)

var registry = map[string]fitFunc{
	NearestCentroid: func(x *mat.Dense, y dataset.Labels, _ ports.ClassifierSpec) (model, error) {
		return fitNearestCentroid(x, y)
	},
	KNearestNeighbours: func(x *mat.Dense, y dataset.Labels, spec ports.ClassifierSpec) (model, error) {
		return fitKNN(x, y, int(spec.Param("k", 3)))
	},
	LinearDiscriminant: func(x *mat.Dense, y dataset.Labels, spec ports.ClassifierSpec) (model, error) {
		return fitLinearDiscriminant(x, y, spec.Param("ridge", 1e-3))
	},
}

// Names lists the supported classifiers, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WithDefaults fills an empty loss name with accuracy.
func WithDefaults(spec ports.ClassifierSpec) ports.ClassifierSpec {
	if spec.LossName == "" {
		spec.LossName = LossAccuracy
	}
	return spec
}

// ValidateSpec checks the classifier and loss names.
func ValidateSpec(spec ports.ClassifierSpec) error {
	spec = WithDefaults(spec)
	if _, ok := registry[spec.Name]; !ok {
		return fmt.Errorf("%w: %q (supported: %v)", core.ErrUnsupportedClassifier, spec.Name, Names())
	}
	return ValidateLossName(spec.LossName)
}

// Engine implements ports.ClassifierPort for the built-in classifiers.
// Features are z-scored with training-fold statistics before fitting.
type Engine struct{}

// NewEngine creates a classifier engine
func NewEngine() *Engine {
	return &Engine{}
}

// TrainAndScore fits spec.Name on the training rows and scores the test rows.
func (e *Engine) TrainAndScore(ctx context.Context, trainX mat.Matrix, trainY dataset.Labels, testX mat.Matrix, testY dataset.Labels, spec ports.ClassifierSpec) (ports.Score, error) {
	if err := ctx.Err(); err != nil {
		return ports.Score{}, err
	}
	spec = WithDefaults(spec)
	if err := ValidateSpec(spec); err != nil {
		return ports.Score{}, err
	}
	trainRows, trainCols := trainX.Dims()
	testRows, testCols := testX.Dims()
	if trainRows != len(trainY) || testRows != len(testY) {
		return ports.Score{}, fmt.Errorf("label count does not match rows (train %d/%d, test %d/%d)", trainRows, len(trainY), testRows, len(testY))
	}
	if trainCols != testCols {
		return ports.Score{}, fmt.Errorf("train has %d features, test has %d", trainCols, testCols)
	}
	if trainRows == 0 || testRows == 0 {
		return ports.Score{}, fmt.Errorf("empty split (train %d, test %d)", trainRows, testRows)
	}

	sc := fitScaler(trainX)
	m, err := registry[spec.Name](sc.transform(trainX), trainY, spec)
	if err != nil {
		return ports.Score{}, err
	}
	predicted := m.predict(sc.transform(testX))

	loss, err := ComputeLoss(spec.LossName, predicted, testY)
	if err != nil {
		return ports.Score{}, err
	}
	return ports.Score{Loss: loss, LossName: spec.LossName}, nil
}
