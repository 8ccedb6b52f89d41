// Package singer writes extraction output as Singer protocol messages,
// one JSON object per line.
package singer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// Message types.
const (
	TypeSchema = "SCHEMA"
	TypeRecord = "RECORD"
	TypeState  = "STATE"
)

// Ensure Writer implements the interface.
var _ driven.RecordSink = (*Writer)(nil)

// SchemaMessage announces a stream.
type SchemaMessage struct {
	Type               string          `json:"type"`
	Stream             string          `json:"stream"`
	Schema             json.RawMessage `json:"schema"`
	KeyProperties      []string        `json:"key_properties"`
	BookmarkProperties []string        `json:"bookmark_properties,omitempty"`
}

// RecordMessage carries one record.
type RecordMessage struct {
	Type          string        `json:"type"`
	Stream        string        `json:"stream"`
	Record        domain.Record `json:"record"`
	TimeExtracted string        `json:"time_extracted"`
}

// StateMessage carries the run state.
type StateMessage struct {
	Type  string       `json:"type"`
	Value domain.State `json:"value"`
}

// Writer encodes messages to an io.Writer.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// WriteSchema emits a SCHEMA message.
func (w *Writer) WriteSchema(_ context.Context, stream domain.StreamDefinition) error {
	msg := SchemaMessage{
		Type:          TypeSchema,
		Stream:        stream.Name,
		Schema:        json.RawMessage(stream.Schema),
		KeyProperties: stream.PrimaryKeys,
	}
	if !stream.IsFullTable() {
		msg.BookmarkProperties = []string{stream.ReplicationKey}
	}
	return w.write(msg)
}

// WriteRecord emits a RECORD message.
func (w *Writer) WriteRecord(_ context.Context, stream string, record domain.Record, extractedAt time.Time) error {
	return w.write(RecordMessage{
		Type:          TypeRecord,
		Stream:        stream,
		Record:        record,
		TimeExtracted: extractedAt.UTC().Format(time.RFC3339Nano),
	})
}

// WriteState emits a STATE message.
func (w *Writer) WriteState(_ context.Context, state domain.State) error {
	return w.write(StateMessage{Type: TypeState, Value: state})
}

func (w *Writer) write(msg any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(msg); err != nil {
		return fmt.Errorf("singer: encode message: %w", err)
	}
	return nil
}
