package featureset

import (
	"fmt"

	"fscompare/domain/core"
)

// Resolution is the outcome of resolving one spec against a catalog.
type Resolution struct {
	Spec   Spec
	Subset Subset
	// Dropped lists canonical ids absent from the catalog.
	Dropped []FeatureID
	// MissingNames lists canonical member names absent from the catalog.
	MissingNames []string
}

// DroppedCount is the number of canonical members left out of the subset.
func (r *Resolution) DroppedCount() int {
	return len(r.Dropped) + len(r.MissingNames)
}

// Resolver turns feature-set names into subsets. It holds no state besides the
// canonical provider, so resolution is a pure function of (name, catalog).
type Resolver struct {
	canonical CanonicalProvider
}

// NewResolver creates a resolver; canonical may be nil when no canonical sets exist.
func NewResolver(canonical CanonicalProvider) *Resolver {
	return &Resolver{canonical: canonical}
}

// Resolve maps name to a subset of catalog.
func (r *Resolver) Resolve(name string, catalog *Catalog) (Subset, error) {
	res, err := r.ResolveDetailed(name, catalog)
	if err != nil {
		return nil, err
	}
	return res.Subset, nil
}

// ResolveDetailed is Resolve plus the spec and any dropped canonical ids.
func (r *Resolver) ResolveDetailed(name string, catalog *Catalog) (*Resolution, error) {
	spec, err := ParseSpec(name, r.canonical)
	if err != nil {
		return nil, err
	}
	return r.ResolveSpec(spec, catalog)
}

// ResolveSpec applies a parsed spec.
func (r *Resolver) ResolveSpec(spec Spec, catalog *Catalog) (*Resolution, error) {
	if catalog == nil {
		return nil, core.NewCatalogError("nil catalog")
	}
	res := &Resolution{Spec: spec}

	switch spec.Rule {
	case RuleAll:
		res.Subset = NewSubset(catalog.IDs())

	case RuleTagged, RuleNotTagged:
		want := spec.Rule == RuleTagged
		var ids []FeatureID
		for _, f := range catalog.features {
			if f.HasKeyword(spec.Keyword) == want {
				ids = append(ids, f.ID)
			}
		}
		res.Subset = NewSubset(ids)

	case RuleCanonical:
		if r.canonical == nil {
			return nil, &core.UnknownFeatureSetError{Name: spec.Name}
		}
		list, ok := r.canonical.CanonicalSet(spec.Canonical)
		if !ok {
			return nil, &core.UnknownFeatureSetError{Name: spec.Name}
		}
		var ids []FeatureID
		for _, id := range list {
			if catalog.Has(id) {
				ids = append(ids, id)
			} else {
				res.Dropped = append(res.Dropped, id)
			}
		}
		res.Subset = NewSubset(ids)
		if mr, ok := r.canonical.(MissingReporter); ok {
			res.MissingNames = mr.Missing(spec.Canonical)
		}

	default:
		return nil, fmt.Errorf("feature set %q: unhandled rule %v", spec.Name, spec.Rule)
	}

	if res.Subset == nil {
		res.Subset = Subset{}
	}
	return res, nil
}

// ResolveAll resolves names in order, failing on the first unknown name so no
// partial battery is returned.
func (r *Resolver) ResolveAll(names []string, catalog *Catalog) ([]*Resolution, error) {
	out := make([]*Resolution, 0, len(names))
	for _, name := range names {
		res, err := r.ResolveDetailed(name, catalog)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// StaticCanonical is an in-memory CanonicalProvider.
type StaticCanonical map[string][]FeatureID

// CanonicalSet implements CanonicalProvider.
func (s StaticCanonical) CanonicalSet(name string) ([]FeatureID, bool) {
	ids, ok := s[name]
	if !ok {
		return nil, false
	}
	return append([]FeatureID(nil), ids...), true
}
