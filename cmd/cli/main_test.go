package main

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"fscompare/app"
	"fscompare/domain/crossval"
	"fscompare/domain/dataset"
	"fscompare/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFlags_OverrideOnlyChangedFlags(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Run.NumRepeats = 7

	cmd := newCompareCmd()
	require.NoError(t, cmd.Flags().Set("classifier", "knn"))
	require.NoError(t, cmd.Flags().Set("feature-sets", "all,catch22"))
	require.NoError(t, cmd.Flags().Set("seed", "99"))

	flags := &runFlags{classifier: "knn", featureSets: []string{"all", "catch22"}, seed: 99}
	require.NoError(t, flags.apply(cmd, cfg))

	assert.Equal(t, "knn", cfg.Run.Classifier)
	assert.Equal(t, []string{"all", "catch22"}, cfg.Run.FeatureSets)
	assert.Equal(t, int64(99), cfg.Run.Seed)
	assert.Equal(t, 7, cfg.Run.NumRepeats, "unset flag must keep the configured value")
}

func TestRunFlags_RejectsInvalidOverride(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	cmd := newCompareCmd()
	require.NoError(t, cmd.Flags().Set("loss", "f1"))
	flags := &runFlags{loss: "f1"}

	assert.Error(t, flags.apply(cmd, cfg))
}

func TestWriteFoldPlan(t *testing.T) {
	labels := dataset.Labels{1, 1, 1, 2, 2, 2}
	a, err := crossval.NewPlanner(10).AssignFolds(labels, 3, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	plan := &app.FoldPlan{NumFolds: 3, NumRepeats: 1, ClassCounts: []int{3, 3}, Repeats: []*crossval.Assignment{a}}
	var buf bytes.Buffer
	require.NoError(t, writeFoldPlan(&buf, plan))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "folds=3 repeats=1 classes=[1:3 2:3]\n"))
	// header plus one line per fold
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestWriteFeatureSets(t *testing.T) {
	var buf bytes.Buffer
	err := writeFeatureSets(&buf, []app.FeatureSetSummary{
		{Name: "all", Rule: "all", FeatureCount: 40},
		{Name: "catch22", Rule: "canonical(catch22)", FeatureCount: 20, Dropped: 2},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "FEATURES")
	assert.Contains(t, lines[2], "catch22")
}
