package featureset

import (
	"sort"

	"fscompare/domain/core"
)

// FeatureID identifies a feature (a column of the feature matrix).
type FeatureID int

// Feature is one catalog entry.
type Feature struct {
	ID       FeatureID `json:"id"`
	Name     string    `json:"name"`
	Keywords []Keyword `json:"keywords,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
}

// HasKeyword reports whether the feature carries keyword k.
func (f Feature) HasKeyword(k Keyword) bool {
	for _, fk := range f.Keywords {
		if fk == k {
			return true
		}
	}
	return false
}

// Catalog is the ordered, immutable feature list of a dataset.
// Column j of the dataset's feature matrix holds feature Features()[j].
type Catalog struct {
	features []Feature
	index    map[FeatureID]int
	byName   map[string]FeatureID
}

// NewCatalog validates and indexes features. IDs must be unique and every
// keyword must belong to the vocabulary.
func NewCatalog(features []Feature) (*Catalog, error) {
	c := &Catalog{
		features: make([]Feature, len(features)),
		index:    make(map[FeatureID]int, len(features)),
		byName:   make(map[string]FeatureID, len(features)),
	}
	for i, f := range features {
		if _, dup := c.index[f.ID]; dup {
			return nil, core.NewCatalogError("duplicate feature id %d", f.ID)
		}
		for _, k := range f.Keywords {
			if !k.Valid() {
				return nil, core.NewCatalogError("feature %d: %v %q", f.ID, core.ErrUnknownKeyword, k)
			}
		}
		f.Keywords = append([]Keyword(nil), f.Keywords...)
		f.Tags = append([]string(nil), f.Tags...)
		c.features[i] = f
		c.index[f.ID] = i
		if f.Name != "" {
			c.byName[f.Name] = f.ID
		}
	}
	return c, nil
}

// Len returns the number of features.
func (c *Catalog) Len() int { return len(c.features) }

// Feature returns the feature at column position i.
func (c *Catalog) Feature(i int) Feature { return c.features[i] }

// Features returns a copy of the ordered feature list.
func (c *Catalog) Features() []Feature {
	out := make([]Feature, len(c.features))
	copy(out, c.features)
	return out
}

// IDs returns feature ids in catalog order.
func (c *Catalog) IDs() []FeatureID {
	ids := make([]FeatureID, len(c.features))
	for i, f := range c.features {
		ids[i] = f.ID
	}
	return ids
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id FeatureID) bool {
	_, ok := c.index[id]
	return ok
}

// Column returns the matrix column holding feature id.
func (c *Catalog) Column(id FeatureID) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Lookup finds a feature id by name.
func (c *Catalog) Lookup(name string) (FeatureID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Columns maps a subset to matrix column positions, ascending.
func (c *Catalog) Columns(s Subset) ([]int, error) {
	cols := make([]int, 0, len(s))
	for _, id := range s {
		col, ok := c.index[id]
		if !ok {
			return nil, core.NewCatalogError("feature %d not in catalog", id)
		}
		cols = append(cols, col)
	}
	sort.Ints(cols)
	return cols, nil
}

// Subset is an ascending, duplicate-free set of feature ids.
type Subset []FeatureID

// NewSubset sorts and de-duplicates ids.
func NewSubset(ids []FeatureID) Subset {
	s := make(Subset, 0, len(ids))
	seen := make(map[FeatureID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			s = append(s, id)
		}
	}
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s
}

// Len returns the number of features in the subset.
func (s Subset) Len() int { return len(s) }

// Contains reports membership.
func (s Subset) Contains(id FeatureID) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= id })
	return i < len(s) && s[i] == id
}
