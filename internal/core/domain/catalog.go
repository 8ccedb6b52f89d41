package domain

import (
	"encoding/json"
	"slices"
)

// ReplicationFullTable is the replication method of streams without a replication key.
const ReplicationFullTable = "FULL_TABLE"

// Catalog lists the streams a tap can extract.
type Catalog struct {
	Streams []CatalogEntry `json:"streams"`
}

// CatalogEntry describes one stream in a Catalog.
type CatalogEntry struct {
	TapStreamID       string            `json:"tap_stream_id"`
	Stream            string            `json:"stream"`
	Schema            json.RawMessage   `json:"schema"`
	KeyProperties     []string          `json:"key_properties"`
	ReplicationMethod string            `json:"replication_method,omitempty"`
	ReplicationKey    string            `json:"replication_key,omitempty"`
	Metadata          []CatalogMetadata `json:"metadata,omitempty"`
}

// CatalogMetadata attaches properties to a breadcrumb within a stream schema.
// The empty breadcrumb addresses the stream itself.
type CatalogMetadata struct {
	Breadcrumb []string       `json:"breadcrumb"`
	Metadata   map[string]any `json:"metadata"`
}

// Selected reports whether the stream-level metadata marks the entry as selected.
// Entries without stream-level metadata, or without a "selected" flag, are selected.
func (e CatalogEntry) Selected() bool {
	for _, md := range e.Metadata {
		if len(md.Breadcrumb) != 0 {
			continue
		}
		selected, ok := md.Metadata["selected"].(bool)
		if !ok {
			return true
		}
		return selected
	}
	return true
}

// Entry returns the catalog entry for a stream.
func (c *Catalog) Entry(stream string) (CatalogEntry, bool) {
	i := slices.IndexFunc(c.Streams, func(e CatalogEntry) bool {
		return e.TapStreamID == stream
	})
	if i < 0 {
		return CatalogEntry{}, false
	}
	return c.Streams[i], true
}
