package featureset

import (
	"fmt"
	"sort"
	"strings"

	"fscompare/domain/core"
)

// Keyword is a dependency tag from the closed vocabulary used by feature-set rules.
type Keyword string

const (
	KeywordLengthDependent   Keyword = "lengthdep"
	KeywordLocationDependent Keyword = "locdep"
	KeywordSpreadDependent   Keyword = "spreaddep"
)

// Keywords lists the vocabulary in a fixed order.
var Keywords = []Keyword{
	KeywordLengthDependent,
	KeywordLocationDependent,
	KeywordSpreadDependent,
}

// dependencyStem is the word used in feature-set names, e.g. "location" in "notLocationDependent".
var dependencyStem = map[Keyword]string{
	KeywordLengthDependent:   "length",
	KeywordLocationDependent: "location",
	KeywordSpreadDependent:   "spread",
}

// Valid reports whether k belongs to the vocabulary.
func (k Keyword) Valid() bool {
	_, ok := dependencyStem[k]
	return ok
}

func (k Keyword) String() string { return string(k) }

// ParseKeyword parses an exact vocabulary keyword.
func ParseKeyword(s string) (Keyword, error) {
	k := Keyword(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownKeyword, s)
	}
	return k, nil
}

// ParseTags splits raw metadata tags into vocabulary keywords and free-form tags.
// A tag ending in "dep" must be a vocabulary keyword: a misspelled dependency tag
// would otherwise resolve silently to an empty subset.
func ParseTags(raw []string) ([]Keyword, []string, error) {
	seen := make(map[Keyword]bool)
	var keywords []Keyword
	var tags []string
	for _, r := range raw {
		t := strings.ToLower(strings.TrimSpace(r))
		if t == "" {
			continue
		}
		if strings.HasSuffix(t, "dep") {
			k, err := ParseKeyword(t)
			if err != nil {
				return nil, nil, err
			}
			if !seen[k] {
				seen[k] = true
				keywords = append(keywords, k)
			}
			continue
		}
		tags = append(tags, t)
	}
	sort.Slice(keywords, func(i, j int) bool { return keywords[i] < keywords[j] })
	return keywords, tags, nil
}

// SplitTagList splits a delimited keyword cell ("lengthdep,locdep" or "lengthdep; raw").
func SplitTagList(cell string) []string {
	return strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
}
