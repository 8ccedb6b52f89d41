package cli

import (
	"context"
	"errors"
	"iter"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driving"
)

// mockExtractor implements driving.Extractor for testing.
type mockExtractor struct {
	mu       sync.Mutex
	err      error
	delay    time.Duration
	streams  []string
	extracts int
	polled   map[string]int
}

func (m *mockExtractor) Extract(ctx context.Context, sources []driven.RecordSource) error {
	m.mu.Lock()
	m.extracts++
	m.mu.Unlock()
	for _, s := range sources {
		if err := m.ExtractStream(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockExtractor) ExtractStream(_ context.Context, source driven.RecordSource) error {
	time.Sleep(m.delay)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams = append(m.streams, source.Definition().Name)
	return m.err
}

func (m *mockExtractor) Status(_ context.Context, stream string) (*driving.ExtractStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.polled == nil {
		m.polled = make(map[string]int)
	}
	m.polled[stream]++
	return &driving.ExtractStatus{Stream: stream, Running: true, RecordsExtracted: m.polled[stream]}, nil
}

// namedSource is a source with no records.
type namedSource struct{ name string }

func (s namedSource) Definition() domain.StreamDefinition { return domain.StreamDefinition{Name: s.name} }
func (s namedSource) RequestParams() url.Values              { return url.Values{} }
func (s namedSource) ParseResponse(*domain.RawPage) iter.Seq2[domain.Record, error] {
	return func(func(domain.Record, error) bool) {}
}

func TestExtractWithProgress_Success(t *testing.T) {
	old := progressInterval
	progressInterval = 5 * time.Millisecond
	defer func() { progressInterval = old }()

	ext := &mockExtractor{delay: 20 * time.Millisecond}
	sources := []driven.RecordSource{namedSource{name: "tweets"}, namedSource{name: "users"}}

	err := extractWithProgress(context.Background(), ext, sources)

	assert.NoError(t, err)
	assert.Equal(t, 1, ext.extracts)
	assert.Equal(t, []string{"tweets", "users"}, ext.streams)
	assert.Positive(t, ext.polled["tweets"])
	assert.Positive(t, ext.polled["users"])
}

func TestExtractWithProgress_ReturnsError(t *testing.T) {
	boom := errors.New("boom")
	ext := &mockExtractor{err: boom}
	sources := []driven.RecordSource{namedSource{name: "tweets"}, namedSource{name: "users"}}

	err := extractWithProgress(context.Background(), ext, sources)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"tweets"}, ext.streams)
}
