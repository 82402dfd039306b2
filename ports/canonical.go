package ports

import "fscompare/domain/featureset"

// CanonicalSetProvider supplies fixed feature id lists such as catch22.
type CanonicalSetProvider interface {
	featureset.CanonicalProvider
	// Names lists the canonical sets the provider knows.
	Names() []string
}

// CatalogBinder is implemented by providers whose sets are keyed by feature
// name and must be translated to the ids of each dataset's catalog.
type CatalogBinder interface {
	ForCatalog(catalog *featureset.Catalog) CanonicalSetProvider
}
