package canonical

import (
	"fmt"
	"os"
	"sort"

	"fscompare/domain/featureset"
	"fscompare/ports"

	"gopkg.in/yaml.v3"
)

// StaticProvider serves fixed id lists. When built by FromNames it also
// remembers which member names the catalog lacked.
type StaticProvider struct {
	sets    featureset.StaticCanonical
	missing map[string][]string
}

// NewStaticProvider copies sets into a provider.
func NewStaticProvider(sets map[string][]featureset.FeatureID) *StaticProvider {
	p := &StaticProvider{sets: make(featureset.StaticCanonical, len(sets))}
	for name, ids := range sets {
		p.sets[name] = append([]featureset.FeatureID(nil), ids...)
	}
	return p
}

// CanonicalSet implements featureset.CanonicalProvider.
func (p *StaticProvider) CanonicalSet(name string) ([]featureset.FeatureID, bool) {
	return p.sets.CanonicalSet(name)
}

// Missing implements featureset.MissingReporter.
func (p *StaticProvider) Missing(set string) []string {
	return append([]string(nil), p.missing[set]...)
}

// Names lists known set names, sorted.
func (p *StaticProvider) Names() []string {
	names := make([]string, 0, len(p.sets))
	for name := range p.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromNames builds a provider by looking feature names up in a catalog.
// Names the catalog lacks are left out of the ids and reported by Missing.
func FromNames(catalog *featureset.Catalog, nameSets map[string][]string) *StaticProvider {
	sets := make(map[string][]featureset.FeatureID, len(nameSets))
	missing := make(map[string][]string)
	for set, names := range nameSets {
		ids := make([]featureset.FeatureID, 0, len(names))
		for _, n := range names {
			if id, ok := catalog.Lookup(n); ok {
				ids = append(ids, id)
			} else {
				missing[set] = append(missing[set], n)
			}
		}
		sets[set] = ids
	}
	p := NewStaticProvider(sets)
	p.missing = missing
	return p
}

// fileSet is one entry of a canonical set file. Either ids or names may be given.
type fileSet struct {
	IDs   []int    `yaml:"ids"`
	Names []string `yaml:"names"`
}

type setFile struct {
	Sets map[string]fileSet `yaml:"sets"`
}

// NamedProvider holds canonical sets given by feature name or by id. Names
// only become ids once bound to a catalog with ForCatalog.
type NamedProvider struct {
	names map[string][]string
	ids   map[string][]featureset.FeatureID
}

// NewNamedProvider creates a provider over nameSets, typically DefaultNameSets().
func NewNamedProvider(nameSets map[string][]string) *NamedProvider {
	p := &NamedProvider{
		names: make(map[string][]string, len(nameSets)),
		ids:   make(map[string][]featureset.FeatureID),
	}
	for set, names := range nameSets {
		p.names[set] = append([]string(nil), names...)
	}
	return p
}

// CanonicalSet serves id-based sets. Name-based sets report ok with no ids
// until the provider is bound to a catalog.
func (p *NamedProvider) CanonicalSet(name string) ([]featureset.FeatureID, bool) {
	if ids, ok := p.ids[name]; ok {
		return append([]featureset.FeatureID(nil), ids...), true
	}
	if _, ok := p.names[name]; ok {
		return []featureset.FeatureID{}, true
	}
	return nil, false
}

// Names lists every set, sorted.
func (p *NamedProvider) Names() []string {
	names := make([]string, 0, len(p.names)+len(p.ids))
	for name := range p.names {
		names = append(names, name)
	}
	for name := range p.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForCatalog translates name-based sets through catalog.
func (p *NamedProvider) ForCatalog(catalog *featureset.Catalog) ports.CanonicalSetProvider {
	bound := FromNames(catalog, p.names)
	for name, ids := range p.ids {
		bound.sets[name] = append([]featureset.FeatureID(nil), ids...)
	}
	return bound
}

// LoadFile reads canonical sets from YAML:
//
//	sets:
//	  catch22:
//	    names: [DN_HistogramMode_5, ...]
//	  mine:
//	    ids: [3, 17, 42]
//
// The built-in catch22 set is kept unless the file overrides it.
func LoadFile(path string) (*NamedProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read canonical sets %s: %w", path, err)
	}
	var f setFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse canonical sets %s: %w", path, err)
	}

	p := NewNamedProvider(DefaultNameSets())
	for name, s := range f.Sets {
		switch {
		case len(s.IDs) > 0 && len(s.Names) > 0:
			return nil, fmt.Errorf("canonical set %q: give ids or names, not both", name)
		case len(s.IDs) > 0:
			delete(p.names, name)
			ids := make([]featureset.FeatureID, len(s.IDs))
			for i, id := range s.IDs {
				ids[i] = featureset.FeatureID(id)
			}
			p.ids[name] = ids
		case len(s.Names) > 0:
			p.names[name] = s.Names
		default:
			return nil, fmt.Errorf("canonical set %q is empty", name)
		}
	}
	return p, nil
}
