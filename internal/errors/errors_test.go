package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"fscompare/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestGetCode_DerivesFromDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"unknown feature set", &core.UnknownFeatureSetError{Name: "bogus"}, CodeInvalidInput, http.StatusBadRequest},
		{"missing labels", &core.MissingLabelsError{Dataset: "d"}, CodeValidationError, http.StatusUnprocessableEntity},
		{"empty subset", &core.EmptyFeatureSubsetError{FeatureSet: "x"}, CodeValidationError, http.StatusUnprocessableEntity},
		{"classifier", &core.ClassifierEvaluationError{Cause: stderrors.New("boom")}, CodeEvaluationFailed, http.StatusBadGateway},
		{"metric", &core.InconsistentMetricError{}, CodeEvaluationFailed, http.StatusBadGateway},
		{"not found", core.ErrComparisonNotFound, CodeNotFound, http.StatusNotFound},
		{"plain", stderrors.New("disk full"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.Equal(t, tt.code, GetCode(wrapped))
			assert.Equal(t, tt.status, HTTPStatus(wrapped))
		})
	}
}

func TestWrap_KeepsCodeAndCause(t *testing.T) {
	cause := &core.UnknownFeatureSetError{Name: "bogus"}
	err := Wrap(cause, "resolve feature sets")

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.ErrorIs(t, err, core.ErrUnknownFeatureSet)
	assert.Equal(t, "resolve feature sets: unknown feature set: \"bogus\"", err.Error())

	outer := Wrapf(ConfigInvalid("MAX_FOLDS must be >= 2"), "load %s", "config")
	assert.Equal(t, CodeConfigInvalid, GetCode(outer))
	var appErr *AppError
	assert.ErrorAs(t, outer, &appErr)
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeDatabaseError, stderrors.New("connection refused"))
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.Equal(t, "connection refused", err.Error())
}

func TestRepositoryErrors(t *testing.T) {
	dbErr := DatabaseError("failed to list comparisons", stderrors.New("connection refused"))
	assert.Equal(t, CodeDatabaseError, GetCode(dbErr))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(dbErr))
	assert.Equal(t, "failed to list comparisons: connection refused", dbErr.Error())

	missing := NotFound("comparison 42", core.ErrComparisonNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(missing))
	assert.ErrorIs(t, missing, core.ErrComparisonNotFound)
	assert.True(t, core.IsNotFoundError(missing))
}
