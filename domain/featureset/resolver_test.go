package featureset

import (
	"errors"
	"testing"

	"fscompare/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioCatalog is A:lengthdep, B:locdep, C:none, D:lengthdep+locdep, E:none.
func scenarioCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]Feature{
		{ID: 1, Name: "A", Keywords: []Keyword{KeywordLengthDependent}},
		{ID: 2, Name: "B", Keywords: []Keyword{KeywordLocationDependent}},
		{ID: 3, Name: "C"},
		{ID: 4, Name: "D", Keywords: []Keyword{KeywordLengthDependent, KeywordLocationDependent}},
		{ID: 5, Name: "E"},
	})
	require.NoError(t, err)
	return c
}

func TestResolve_TaggedAndComplement(t *testing.T) {
	catalog := scenarioCatalog(t)
	r := NewResolver(nil)

	length, err := r.Resolve("lengthDependent", catalog)
	require.NoError(t, err)
	assert.Equal(t, Subset{1, 4}, length)

	notLength, err := r.Resolve("notLengthDependent", catalog)
	require.NoError(t, err)
	assert.Equal(t, Subset{2, 3, 5}, notLength)

	loc, err := r.Resolve("locationDependent", catalog)
	require.NoError(t, err)
	assert.Equal(t, Subset{2, 4}, loc)
}

func TestResolve_PartitionOfAll(t *testing.T) {
	catalog := scenarioCatalog(t)
	r := NewResolver(nil)

	all, err := r.Resolve(NameAll, catalog)
	require.NoError(t, err)
	assert.Equal(t, Subset{1, 2, 3, 4, 5}, all)

	for _, k := range Keywords {
		t.Run(k.String(), func(t *testing.T) {
			in, err := r.Resolve(Tagged(k).Name, catalog)
			require.NoError(t, err)
			out, err := r.Resolve(NotTagged(k).Name, catalog)
			require.NoError(t, err)

			for _, id := range in {
				assert.False(t, out.Contains(id), "feature %d in both halves", id)
			}
			union := NewSubset(append(append([]FeatureID{}, in...), out...))
			assert.Equal(t, all, union)
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	catalog := scenarioCatalog(t)
	r := NewResolver(StaticCanonical{NameCatch22: {5, 3, 1}})

	for _, name := range DefaultBattery {
		first, err := r.Resolve(name, catalog)
		require.NoError(t, err)
		second, err := r.Resolve(name, catalog)
		require.NoError(t, err)
		assert.Equal(t, first, second, name)
	}
}

func TestResolve_UnknownName(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.Resolve("bogus", scenarioCatalog(t))
	require.Error(t, err)

	var unknown *core.UnknownFeatureSetError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "bogus", unknown.Name)
	assert.ErrorIs(t, err, core.ErrUnknownFeatureSet)
	assert.Contains(t, err.Error(), "bogus")
}

func TestResolve_CanonicalWithoutProviderIsUnknown(t *testing.T) {
	_, err := NewResolver(nil).Resolve(NameCatch22, scenarioCatalog(t))
	assert.ErrorIs(t, err, core.ErrUnknownFeatureSet)
}

func TestResolve_CanonicalDropsAbsentIDs(t *testing.T) {
	r := NewResolver(StaticCanonical{NameCatch22: {4, 99, 2, 2}})
	res, err := r.ResolveDetailed(NameCatch22, scenarioCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, RuleCanonical, res.Spec.Rule)
	assert.Equal(t, Subset{2, 4}, res.Subset)
	assert.Equal(t, []FeatureID{99}, res.Dropped)
}

type namedCanonical struct {
	StaticCanonical
	missing map[string][]string
}

func (n namedCanonical) Missing(set string) []string { return n.missing[set] }

func TestResolve_CanonicalReportsMissingNames(t *testing.T) {
	r := NewResolver(namedCanonical{
		StaticCanonical: StaticCanonical{NameCatch22: {1, 3}},
		missing:         map[string][]string{NameCatch22: {"SB_MotifThree_quantile_hh", "FC_LocalSimple_mean1_tauresrat"}},
	})
	res, err := r.ResolveDetailed(NameCatch22, scenarioCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, Subset{1, 3}, res.Subset)
	assert.Empty(t, res.Dropped)
	assert.Equal(t, []string{"SB_MotifThree_quantile_hh", "FC_LocalSimple_mean1_tauresrat"}, res.MissingNames)
	assert.Equal(t, 2, res.DroppedCount())
}

func TestResolve_EmptySubsetIsNotAnError(t *testing.T) {
	subset, err := NewResolver(nil).Resolve("spreadDependent", scenarioCatalog(t))
	require.NoError(t, err)
	assert.NotNil(t, subset)
	assert.Equal(t, 0, subset.Len())
}

func TestResolveAll_FailsWithoutPartialResult(t *testing.T) {
	r := NewResolver(nil)
	res, err := r.ResolveAll([]string{"all", "lengthDependent", "nope"}, scenarioCatalog(t))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, core.ErrUnknownFeatureSet)
}

func TestParseSpec_DefaultBattery(t *testing.T) {
	canonical := StaticCanonical{NameCatch22: {1}}
	expected := []RuleKind{RuleAll, RuleCanonical, RuleNotTagged, RuleTagged, RuleNotTagged, RuleTagged, RuleNotTagged, RuleTagged}

	for i, name := range DefaultBattery {
		spec, err := ParseSpec(name, canonical)
		require.NoError(t, err, name)
		assert.Equal(t, name, spec.Name)
		assert.Equal(t, expected[i], spec.Rule, name)
	}
}
