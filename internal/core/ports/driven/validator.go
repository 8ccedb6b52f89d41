package driven

import "github.com/custodia-labs/tap-twitter/internal/core/domain"

// SchemaValidator checks records against their stream's JSON Schema.
type SchemaValidator interface {
	// Validate returns an error describing the first violation, or nil.
	Validate(stream domain.StreamDefinition, record domain.Record) error
}
