// Package memory provides in-memory implementations of driven ports for
// tests and dry runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordSink = (*RecordStore)(nil)

// StoredRecord is a record with the time it was extracted.
type StoredRecord struct {
	Record      domain.Record
	ExtractedAt time.Time
}

// RecordStore keeps every message it receives, in arrival order.
type RecordStore struct {
	mu      sync.RWMutex
	schemas map[string]domain.StreamDefinition
	records map[string][]StoredRecord
	states  []domain.State
}

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		schemas: make(map[string]domain.StreamDefinition),
		records: make(map[string][]StoredRecord),
	}
}

// WriteSchema stores the stream definition.
func (s *RecordStore) WriteSchema(_ context.Context, stream domain.StreamDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[stream.Name] = stream.Clone()
	return nil
}

// WriteRecord appends the record to the stream.
func (s *RecordStore) WriteRecord(_ context.Context, stream string, record domain.Record, extractedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[stream] = append(s.records[stream], StoredRecord{Record: record, ExtractedAt: extractedAt})
	return nil
}

// WriteState appends the state snapshot.
func (s *RecordStore) WriteState(_ context.Context, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, state)
	return nil
}

// Schema returns the definition written for a stream.
func (s *RecordStore) Schema(stream string) (domain.StreamDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.schemas[stream]
	if !ok {
		return domain.StreamDefinition{}, domain.ErrNotFound
	}
	return def, nil
}

// Records returns the records of a stream in write order.
func (s *RecordStore) Records(stream string) []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, 0, len(s.records[stream]))
	for _, r := range s.records[stream] {
		out = append(out, r.Record)
	}
	return out
}

// Stored returns the records of a stream with their extraction times.
func (s *RecordStore) Stored(stream string) []StoredRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]StoredRecord(nil), s.records[stream]...)
}

// States returns every state written, oldest first.
func (s *RecordStore) States() []domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.State(nil), s.states...)
}
