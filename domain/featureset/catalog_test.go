package featureset

import (
	"testing"

	"fscompare/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewCatalog([]Feature{{ID: 1}, {ID: 2}, {ID: 1}})
	assert.ErrorIs(t, err, core.ErrInvalidCatalog)
}

func TestNewCatalog_RejectsUnknownKeyword(t *testing.T) {
	_, err := NewCatalog([]Feature{{ID: 1, Keywords: []Keyword{"lenghtdep"}}})
	assert.ErrorIs(t, err, core.ErrInvalidCatalog)
}

func TestCatalog_ColumnsFollowCatalogOrder(t *testing.T) {
	c, err := NewCatalog([]Feature{{ID: 30, Name: "x"}, {ID: 10, Name: "y"}, {ID: 20, Name: "z"}})
	require.NoError(t, err)

	cols, err := c.Columns(NewSubset([]FeatureID{20, 30}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, cols)

	_, err = c.Columns(Subset{40})
	assert.ErrorIs(t, err, core.ErrInvalidCatalog)

	id, ok := c.Lookup("y")
	assert.True(t, ok)
	assert.Equal(t, FeatureID(10), id)
}

func TestCatalog_FeaturesAreCopied(t *testing.T) {
	kw := []Keyword{KeywordSpreadDependent}
	c, err := NewCatalog([]Feature{{ID: 1, Keywords: kw}})
	require.NoError(t, err)

	kw[0] = KeywordLengthDependent
	assert.True(t, c.Feature(0).HasKeyword(KeywordSpreadDependent))

	features := c.Features()
	features[0].ID = 42
	assert.Equal(t, FeatureID(1), c.Feature(0).ID)
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		keywords []Keyword
		tags     []string
		wantErr  bool
	}{
		{"keywords and free tags", []string{"LocDep", "raw", " lengthdep "}, []Keyword{KeywordLengthDependent, KeywordLocationDependent}, []string{"raw"}, false},
		{"duplicates collapse", []string{"spreaddep", "spreaddep"}, []Keyword{KeywordSpreadDependent}, nil, false},
		{"misspelled dependency", []string{"lenghtdep"}, nil, nil, true},
		{"empty", []string{"", "  "}, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords, tags, err := ParseTags(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrUnknownKeyword)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.keywords, keywords)
			assert.Equal(t, tt.tags, tags)
		})
	}
}

func TestSplitTagList(t *testing.T) {
	assert.Equal(t, []string{"lengthdep", "locdep", "raw"}, SplitTagList("lengthdep, locdep;raw"))
	assert.Empty(t, SplitTagList(""))
}
