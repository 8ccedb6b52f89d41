package driving

import (
	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// CatalogService exposes stream discovery and selection.
type CatalogService interface {
	// Discover returns the catalog of all streams.
	Discover() (*domain.Catalog, error)

	// Select returns the sources selected by the catalog, in source order.
	// A nil catalog selects every source.
	Select(catalog *domain.Catalog) []driven.RecordSource
}
