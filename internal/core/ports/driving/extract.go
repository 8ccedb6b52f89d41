package driving

import (
	"context"

	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// Extractor runs record sources to completion.
type Extractor interface {
	// Extract runs every source in order. It stops at the first failing stream.
	Extract(ctx context.Context, sources []driven.RecordSource) error

	// ExtractStream runs a single source.
	ExtractStream(ctx context.Context, source driven.RecordSource) error

	// Status returns extraction status for a stream.
	Status(ctx context.Context, stream string) (*ExtractStatus, error)
}

// ExtractStatus represents the current state of a stream extraction.
type ExtractStatus struct {
	// Stream identifies the stream.
	Stream string

	// Running indicates if extraction is currently in progress.
	Running bool

	// PagesFetched is the count of API pages processed.
	PagesFetched int

	// RecordsExtracted is the count of records written to the sink.
	RecordsExtracted int
}
