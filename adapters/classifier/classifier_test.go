package classifier

import (
	"context"
	"math/rand"
	"testing"

	"fscompare/domain/core"
	"fscompare/domain/dataset"
	"fscompare/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// blobs draws n samples per class around means 0, sep, 2*sep on every feature.
func blobs(seed int64, classes, n, features int, sep float64) (*mat.Dense, dataset.Labels) {
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(classes*n, features, nil)
	y := make(dataset.Labels, 0, classes*n)
	row := 0
	for c := 0; c < classes; c++ {
		for i := 0; i < n; i++ {
			for j := 0; j < features; j++ {
				x.Set(row, j, rng.NormFloat64()+sep*float64(c))
			}
			y = append(y, c+1)
			row++
		}
	}
	return x, y
}

func TestEngine_SeparableData(t *testing.T) {
	trainX, trainY := blobs(1, 3, 20, 4, 6)
	testX, testY := blobs(2, 3, 10, 4, 6)
	engine := NewEngine()

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			score, err := engine.TrainAndScore(context.Background(), trainX, trainY, testX, testY,
				ports.ClassifierSpec{Name: name, LossName: LossAccuracy})
			require.NoError(t, err)
			assert.Equal(t, LossAccuracy, score.LossName)
			assert.Greater(t, score.Loss, 95.0)
		})
	}
}

func TestEngine_NoiseIsNearChance(t *testing.T) {
	trainX, trainY := blobs(3, 2, 100, 3, 0)
	testX, testY := blobs(4, 2, 100, 3, 0)

	score, err := NewEngine().TrainAndScore(context.Background(), trainX, trainY, testX, testY,
		ports.ClassifierSpec{Name: NearestCentroid, LossName: LossBalancedAccuracy})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, score.Loss, 15.0)
}

func TestEngine_RejectsBadInput(t *testing.T) {
	x, y := blobs(1, 2, 5, 2, 1)
	engine := NewEngine()
	ctx := context.Background()

	_, err := engine.TrainAndScore(ctx, x, y, x, y, ports.ClassifierSpec{Name: "svm", LossName: LossAccuracy})
	assert.ErrorIs(t, err, core.ErrUnsupportedClassifier)

	_, err = engine.TrainAndScore(ctx, x, y, x, y, ports.ClassifierSpec{Name: NearestCentroid, LossName: "f1"})
	assert.ErrorIs(t, err, core.ErrUnsupportedLossMetric)

	_, err = engine.TrainAndScore(ctx, x, y[:3], x, y, ports.ClassifierSpec{Name: NearestCentroid, LossName: LossAccuracy})
	assert.Error(t, err)

	wide := mat.NewDense(10, 3, nil)
	_, err = engine.TrainAndScore(ctx, x, y, wide, y, ports.ClassifierSpec{Name: NearestCentroid, LossName: LossAccuracy})
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = engine.TrainAndScore(cancelled, x, y, x, y, ports.ClassifierSpec{Name: NearestCentroid, LossName: LossAccuracy})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKNN_TieGoesToClosest(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{0, 10})
	m, err := fitKNN(x, dataset.Labels{1, 2}, 2)
	require.NoError(t, err)

	pred := m.predict(mat.NewDense(2, 1, []float64{1, 9}))
	assert.Equal(t, dataset.Labels{1, 2}, pred)
}

func TestLinearDiscriminant_ConstantFeatureNeedsRidge(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		0, 1,
		0, 2,
		0, 5,
		0, 6,
	})
	y := dataset.Labels{1, 1, 2, 2}

	_, err := fitLinearDiscriminant(x, y, 0)
	assert.Error(t, err)

	m, err := fitLinearDiscriminant(x, y, 1e-3)
	require.NoError(t, err)
	assert.Equal(t, dataset.Labels{1, 2}, m.predict(mat.NewDense(2, 2, []float64{0, 1.5, 0, 5.5})))
}

func TestComputeLoss(t *testing.T) {
	actual := dataset.Labels{1, 1, 1, 2}
	predicted := dataset.Labels{1, 1, 1, 1}

	acc, err := ComputeLoss(LossAccuracy, predicted, actual)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, acc, 1e-9)

	bal, err := ComputeLoss(LossBalancedAccuracy, predicted, actual)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, bal, 1e-9)

	_, err = ComputeLoss(LossAccuracy, predicted[:2], actual)
	assert.Error(t, err)
	_, err = ComputeLoss("f1", predicted, actual)
	assert.ErrorIs(t, err, core.ErrUnsupportedLossMetric)
}
