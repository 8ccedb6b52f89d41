// Package sink provides RecordSink combinators.
package sink

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// Ensure Multi implements the interface.
var _ driven.RecordSink = (Multi)(nil)

// Multi forwards every message to each sink in order. All sinks receive the
// message even when an earlier one fails; the errors are joined.
type Multi []driven.RecordSink

// NewMulti returns a fan-out over the non-nil sinks.
func NewMulti(sinks ...driven.RecordSink) Multi {
	m := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

// WriteSchema forwards to every sink.
func (m Multi) WriteSchema(ctx context.Context, stream domain.StreamDefinition) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.WriteSchema(ctx, stream))
	}
	return errors.Join(errs...)
}

// WriteRecord forwards to every sink.
func (m Multi) WriteRecord(ctx context.Context, stream string, record domain.Record, extractedAt time.Time) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.WriteRecord(ctx, stream, record, extractedAt))
	}
	return errors.Join(errs...)
}

// WriteState forwards to every sink.
func (m Multi) WriteState(ctx context.Context, state domain.State) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.WriteState(ctx, state))
	}
	return errors.Join(errs...)
}
