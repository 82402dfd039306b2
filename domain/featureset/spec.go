package featureset

import (
	"fmt"
	"strings"

	"fscompare/domain/core"
)

// RuleKind is the closed set of resolution rules.
type RuleKind int

const (
	RuleAll RuleKind = iota
	RuleTagged
	RuleNotTagged
	RuleCanonical
)

func (r RuleKind) String() string {
	switch r {
	case RuleAll:
		return "all"
	case RuleTagged:
		return "tagged"
	case RuleNotTagged:
		return "notTagged"
	case RuleCanonical:
		return "canonical"
	default:
		return fmt.Sprintf("RuleKind(%d)", int(r))
	}
}

// Well-known feature-set names.
const (
	NameAll     = "all"
	NameCatch22 = "catch22"
)

// Spec is a named feature-set rule.
type Spec struct {
	Name      string
	Rule      RuleKind
	Keyword   Keyword // RuleTagged, RuleNotTagged
	Canonical string  // RuleCanonical
}

// AllFeatures selects the whole catalog.
func AllFeatures() Spec {
	return Spec{Name: NameAll, Rule: RuleAll}
}

// Tagged selects features carrying k, e.g. "lengthDependent".
func Tagged(k Keyword) Spec {
	return Spec{Name: dependentName(k), Rule: RuleTagged, Keyword: k}
}

// NotTagged selects features without k, e.g. "notLengthDependent".
func NotTagged(k Keyword) Spec {
	stem := dependencyStem[k]
	return Spec{
		Name:    "not" + strings.ToUpper(stem[:1]) + stem[1:] + "Dependent",
		Rule:    RuleNotTagged,
		Keyword: k,
	}
}

// Canonical selects a fixed list supplied by a CanonicalProvider.
func Canonical(name string) Spec {
	return Spec{Name: name, Rule: RuleCanonical, Canonical: name}
}

func dependentName(k Keyword) string {
	return dependencyStem[k] + "Dependent"
}

// DefaultBattery is the comparison run when no names are configured.
var DefaultBattery = []string{
	NameAll,
	NameCatch22,
	"notLengthDependent",
	"lengthDependent",
	"notLocationDependent",
	"locationDependent",
	"notSpreadDependent",
	"spreadDependent",
}

// CanonicalProvider supplies fixed feature id lists by set name.
type CanonicalProvider interface {
	CanonicalSet(name string) ([]FeatureID, bool)
}

// MissingReporter is implemented by providers bound to a catalog by feature
// name. Missing lists the member names of a set the catalog lacks.
type MissingReporter interface {
	Missing(set string) []string
}

// ParseSpec maps a feature-set name onto its rule. Canonical names are those
// the provider knows; anything else fails with UnknownFeatureSetError.
func ParseSpec(name string, canonical CanonicalProvider) (Spec, error) {
	if name == NameAll {
		return AllFeatures(), nil
	}
	for _, k := range Keywords {
		if t := Tagged(k); t.Name == name {
			return t, nil
		}
		if nt := NotTagged(k); nt.Name == name {
			return nt, nil
		}
	}
	if canonical != nil && name != "" {
		if _, ok := canonical.CanonicalSet(name); ok {
			return Canonical(name), nil
		}
	}
	return Spec{}, &core.UnknownFeatureSetError{Name: name}
}
