package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrMissingLabels     = errors.New("dataset has no group labels assigned")
	ErrUnknownFeatureSet = errors.New("unknown feature set")
	ErrUnknownKeyword    = errors.New("unknown feature keyword")
	ErrInvalidCatalog    = errors.New("invalid feature catalog")
	ErrInvalidLabels     = errors.New("invalid sample labels")
	ErrInvalidMatrix     = errors.New("invalid feature matrix")
	ErrInvalidSelector   = errors.New("invalid dataset selector")

	// Cross-validation errors
	ErrEmptyFeatureSubset    = errors.New("feature subset is empty")
	ErrInsufficientClassSize = errors.New("class too small for cross-validation")
	ErrDegenerateFold        = errors.New("degenerate fold assignment")
	ErrClassifierEvaluation  = errors.New("classifier evaluation failed")
	ErrInconsistentMetric    = errors.New("inconsistent loss metric")
	ErrNotFound              = errors.New("resource not found")
	ErrComparisonNotFound    = fmt.Errorf("%w: comparison", ErrNotFound)
	ErrUnsupportedClassifier = errors.New("unsupported classifier")
	ErrUnsupportedLossMetric = errors.New("unsupported loss metric")
)

// MissingLabelsError reports a dataset without group labels.
type MissingLabelsError struct {
	Dataset string
}

func (e *MissingLabelsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingLabels, e.Dataset)
}

func (e *MissingLabelsError) Unwrap() error { return ErrMissingLabels }

// UnknownFeatureSetError carries the offending feature-set name.
type UnknownFeatureSetError struct {
	Name string
}

func (e *UnknownFeatureSetError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownFeatureSet, e.Name)
}

func (e *UnknownFeatureSetError) Unwrap() error { return ErrUnknownFeatureSet }

// EmptyFeatureSubsetError is returned when a resolved subset has no features.
type EmptyFeatureSubsetError struct {
	FeatureSet string
}

func (e *EmptyFeatureSubsetError) Error() string {
	return fmt.Sprintf("%v: %q resolved to zero features", ErrEmptyFeatureSubset, e.FeatureSet)
}

func (e *EmptyFeatureSubsetError) Unwrap() error { return ErrEmptyFeatureSubset }

// InsufficientClassSizeError names the smallest class when no fold count >= 2 is possible.
type InsufficientClassSizeError struct {
	Class int
	Size  int
}

func (e *InsufficientClassSizeError) Error() string {
	return fmt.Sprintf("%v: class %d has %d members (need at least 2)", ErrInsufficientClassSize, e.Class, e.Size)
}

func (e *InsufficientClassSizeError) Unwrap() error { return ErrInsufficientClassSize }

// DegenerateFoldError reports a fold that received no samples.
type DegenerateFoldError struct {
	Fold     int
	NumFolds int
	Reason   string
}

func (e *DegenerateFoldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s", ErrDegenerateFold, e.Reason)
	}
	return fmt.Sprintf("%v: fold %d of %d is empty", ErrDegenerateFold, e.Fold+1, e.NumFolds)
}

func (e *DegenerateFoldError) Unwrap() error { return ErrDegenerateFold }

// ClassifierEvaluationError wraps a failure inside one fold's train/score call.
type ClassifierEvaluationError struct {
	FeatureSet string
	Repeat     int
	Fold       int
	Cause      error
}

func (e *ClassifierEvaluationError) Error() string {
	return fmt.Sprintf("%v: feature set %q, repeat %d, fold %d: %v",
		ErrClassifierEvaluation, e.FeatureSet, e.Repeat+1, e.Fold+1, e.Cause)
}

func (e *ClassifierEvaluationError) Unwrap() error { return e.Cause }

func (e *ClassifierEvaluationError) Is(target error) bool {
	return target == ErrClassifierEvaluation
}

// InconsistentMetricError reports a row whose metric name or length disagrees with the first row.
type InconsistentMetricError struct {
	FeatureSet string
	Expected   string
	Got        string
}

func (e *InconsistentMetricError) Error() string {
	return fmt.Sprintf("%v: feature set %q: expected %s, got %s", ErrInconsistentMetric, e.FeatureSet, e.Expected, e.Got)
}

func (e *InconsistentMetricError) Unwrap() error { return ErrInconsistentMetric }

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewCatalogError(reason string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(reason, args...))
}

func NewSelectorError(selector string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidSelector, selector, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConfigurationError reports errors caused by the caller's request rather than the data.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnknownFeatureSet) ||
		errors.Is(err, ErrInvalidSelector) ||
		errors.Is(err, ErrUnsupportedClassifier) ||
		errors.Is(err, ErrUnsupportedLossMetric)
}

// IsDataError reports errors caused by the dataset's labels or catalog.
func IsDataError(err error) bool {
	return errors.Is(err, ErrMissingLabels) ||
		errors.Is(err, ErrEmptyFeatureSubset) ||
		errors.Is(err, ErrInsufficientClassSize) ||
		errors.Is(err, ErrDegenerateFold) ||
		errors.Is(err, ErrInvalidCatalog) ||
		errors.Is(err, ErrInvalidMatrix) ||
		errors.Is(err, ErrUnknownKeyword) ||
		errors.Is(err, ErrInvalidLabels)
}
