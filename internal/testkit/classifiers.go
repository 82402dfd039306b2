package testkit

import (
	"context"
	"fmt"
	"sync"

	"fscompare/domain/dataset"
	"fscompare/ports"

	"gonum.org/v1/gonum/mat"
)

// ConstantClassifier returns the same score for every fold.
type ConstantClassifier struct {
	Loss     float64
	LossName string
}

func (c *ConstantClassifier) TrainAndScore(ctx context.Context, trainX mat.Matrix, trainY dataset.Labels, testX mat.Matrix, testY dataset.Labels, spec ports.ClassifierSpec) (ports.Score, error) {
	return ports.Score{Loss: c.Loss, LossName: c.LossName}, nil
}

// ScriptedClassifier returns losses from a per-call function and fails on
// the call numbered FailOnCall (1-based, 0 disables).
type ScriptedClassifier struct {
	LossName   string
	LossFn     func(call int, trainX, testX mat.Matrix) float64
	FailOnCall int

	mu    sync.Mutex
	calls int
}

func (c *ScriptedClassifier) TrainAndScore(ctx context.Context, trainX mat.Matrix, trainY dataset.Labels, testX mat.Matrix, testY dataset.Labels, spec ports.ClassifierSpec) (ports.Score, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()

	if c.FailOnCall > 0 && call == c.FailOnCall {
		return ports.Score{}, fmt.Errorf("scripted failure on call %d", call)
	}
	loss := float64(call)
	if c.LossFn != nil {
		loss = c.LossFn(call, trainX, testX)
	}
	return ports.Score{Loss: loss, LossName: c.LossName}, nil
}

// Calls returns how many folds were evaluated.
func (c *ScriptedClassifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// SplitRecord captures the shape of one train/test call.
type SplitRecord struct {
	TrainRows, TestRows, Columns int
	TestLabels                   dataset.Labels
}

// RecordingClassifier records every split it is handed and scores by feature count,
// which makes per-subset rows distinguishable in tests.
type RecordingClassifier struct {
	LossName string

	mu     sync.Mutex
	splits []SplitRecord
}

func (c *RecordingClassifier) TrainAndScore(ctx context.Context, trainX mat.Matrix, trainY dataset.Labels, testX mat.Matrix, testY dataset.Labels, spec ports.ClassifierSpec) (ports.Score, error) {
	trainRows, cols := trainX.Dims()
	testRows, _ := testX.Dims()

	c.mu.Lock()
	c.splits = append(c.splits, SplitRecord{
		TrainRows:  trainRows,
		TestRows:   testRows,
		Columns:    cols,
		TestLabels: append(dataset.Labels(nil), testY...),
	})
	c.mu.Unlock()

	return ports.Score{Loss: float64(cols), LossName: c.LossName}, nil
}

// Splits returns the recorded calls in order.
func (c *RecordingClassifier) Splits() []SplitRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SplitRecord(nil), c.splits...)
}
