package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
)

// RecordSink receives the output of an extraction run.
type RecordSink interface {
	// WriteSchema announces a stream before its first record.
	WriteSchema(ctx context.Context, stream domain.StreamDefinition) error

	// WriteRecord emits one record. Ownership of the record passes to the sink.
	WriteRecord(ctx context.Context, stream string, record domain.Record, extractedAt time.Time) error

	// WriteState emits the run state after a stream completes.
	WriteState(ctx context.Context, state domain.State) error
}
