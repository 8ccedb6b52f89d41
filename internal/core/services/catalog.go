package services

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driving"
	"github.com/custodia-labs/tap-twitter/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService discovers streams and applies catalog selection.
type CatalogService struct {
	sources []driven.RecordSource
}

// NewCatalogService creates a catalog over the given sources.
func NewCatalogService(sources []driven.RecordSource) *CatalogService {
	return &CatalogService{sources: sources}
}

// Discover returns one catalog entry per source.
func (s *CatalogService) Discover() (*domain.Catalog, error) {
	catalog := &domain.Catalog{Streams: make([]domain.CatalogEntry, 0, len(s.sources))}

	for _, source := range s.sources {
		def := source.Definition()
		if !json.Valid(def.Schema) {
			return nil, fmt.Errorf("%w: stream %s has an invalid schema", domain.ErrInvalidInput, def.Name)
		}
		catalog.Streams = append(catalog.Streams, catalogEntry(def))
	}

	return catalog, nil
}

// Select returns the sources whose catalog entries are selected.
// Sources missing from a non-nil catalog are skipped.
func (s *CatalogService) Select(catalog *domain.Catalog) []driven.RecordSource {
	if catalog == nil {
		return s.sources
	}

	selected := make([]driven.RecordSource, 0, len(s.sources))
	for _, source := range s.sources {
		name := source.Definition().Name
		entry, ok := catalog.Entry(name)
		if !ok {
			logger.Debug("Stream %s not in catalog, skipping", name)
			continue
		}
		if !entry.Selected() {
			logger.Debug("Stream %s not selected, skipping", name)
			continue
		}
		selected = append(selected, source)
	}
	return selected
}

func catalogEntry(def domain.StreamDefinition) domain.CatalogEntry {
	metadata := []domain.CatalogMetadata{{
		Breadcrumb: []string{},
		Metadata: map[string]any{
			"inclusion":                 "available",
			"selected":                  true,
			"table-key-properties":      def.PrimaryKeys,
			"forced-replication-method": domain.ReplicationFullTable,
		},
	}}
	for _, pk := range def.PrimaryKeys {
		metadata = append(metadata, domain.CatalogMetadata{
			Breadcrumb: []string{"properties", pk},
			Metadata:   map[string]any{"inclusion": "automatic"},
		})
	}

	return domain.CatalogEntry{
		TapStreamID:       def.Name,
		Stream:            def.Name,
		Schema:            json.RawMessage(def.Schema),
		KeyProperties:     def.PrimaryKeys,
		ReplicationMethod: domain.ReplicationFullTable,
		ReplicationKey:    def.ReplicationKey,
		Metadata:          metadata,
	}
}
