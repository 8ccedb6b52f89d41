package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driving"
	"github.com/custodia-labs/tap-twitter/internal/logger"
	"github.com/custodia-labs/tap-twitter/internal/metrics"
)

// NextTokenParam is the query parameter carrying the pagination cursor.
const NextTokenParam = "next_token"

// Ensure Extractor implements the interface.
var _ driving.Extractor = (*Extractor)(nil)

// Extractor drives record sources page by page and forwards their records
// to a sink. Streams and pages are processed sequentially.
type Extractor struct {
	fetcher   driven.PageFetcher
	sink      driven.RecordSink
	validator driven.SchemaValidator
	metrics   *metrics.Metrics
	now       func() time.Time

	// Status tracking
	mu     sync.RWMutex
	active map[string]*driving.ExtractStatus
	state  domain.State
}

// NewExtractor creates a new extractor for one run.
// The validator and metrics are optional.
func NewExtractor(
	fetcher driven.PageFetcher,
	sink driven.RecordSink,
	validator driven.SchemaValidator,
	m *metrics.Metrics,
	runID string,
) *Extractor {
	return &Extractor{
		fetcher:   fetcher,
		sink:      sink,
		validator: validator,
		metrics:   m,
		now:       time.Now,
		active:    make(map[string]*driving.ExtractStatus),
		state:     domain.NewState(runID),
	}
}

// Extract runs every source in order and stops at the first failure.
func (e *Extractor) Extract(ctx context.Context, sources []driven.RecordSource) error {
	for _, source := range sources {
		if err := e.ExtractStream(ctx, source); err != nil {
			return fmt.Errorf("extract %s: %w", source.Definition().Name, err)
		}
	}
	return nil
}

// ExtractStream runs one source until the API stops returning a next token.
func (e *Extractor) ExtractStream(ctx context.Context, source driven.RecordSource) error {
	def := source.Definition()

	status, err := e.begin(def.Name)
	if err != nil {
		return err
	}
	defer e.end(def.Name)

	logger.Info("Starting extraction for stream %s", def.Name)

	if err := e.sink.WriteSchema(ctx, def); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	seen := make(map[string]struct{})
	token := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		params := source.RequestParams()
		if token != "" {
			params.Set(NextTokenParam, token)
		}

		page, err := e.fetcher.FetchPage(ctx, def.Path, params)
		if err != nil {
			return fmt.Errorf("fetch page %d: %w", e.pages(def.Name)+1, err)
		}

		if err := e.processPage(ctx, source, def, page, status); err != nil {
			return fmt.Errorf("page %d: %w", e.pages(def.Name)+1, err)
		}

		e.mu.Lock()
		status.PagesFetched++
		e.mu.Unlock()
		e.metrics.ObservePage(def.Name)

		next := page.Meta.NextToken
		if next == "" {
			break
		}
		if _, dup := seen[next]; dup {
			return fmt.Errorf("%w: token %q", domain.ErrPaginationLoop, next)
		}
		seen[next] = struct{}{}
		token = next
		logger.Debug("Stream %s: next page %s", def.Name, token)
	}

	e.mu.Lock()
	e.state.Bookmarks[def.Name] = domain.Bookmark{
		CompletedAt: e.now().UTC(),
		Records:     status.RecordsExtracted,
	}
	state := e.snapshotState()
	records, pages := status.RecordsExtracted, status.PagesFetched
	e.mu.Unlock()

	if err := e.sink.WriteState(ctx, state); err != nil {
		return fmt.Errorf("write state: %w", err)
	}

	logger.Info("Stream %s complete: %d records, %d pages", def.Name, records, pages)
	return nil
}

// processPage validates and writes one page's records. The first parse,
// validation or sink error aborts the page.
func (e *Extractor) processPage(
	ctx context.Context,
	source driven.RecordSource,
	def domain.StreamDefinition,
	page *domain.RawPage,
	status *driving.ExtractStatus,
) error {
	for record, err := range source.ParseResponse(page) {
		if err != nil {
			e.metrics.ObserveRecordError(def.Name)
			return fmt.Errorf("parse response: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.validator != nil {
			if err := e.validator.Validate(def, record); err != nil {
				e.metrics.ObserveRecordError(def.Name)
				return &domain.SchemaValidationError{Stream: def.Name, RecordID: record.Key(def.PrimaryKeys), Err: err}
			}
		}

		if err := e.sink.WriteRecord(ctx, def.Name, record, e.now().UTC()); err != nil {
			return fmt.Errorf("write record: %w", err)
		}

		e.mu.Lock()
		status.RecordsExtracted++
		e.mu.Unlock()
		e.metrics.ObserveRecord(def.Name)
	}
	return nil
}

// Status returns extraction status for a stream.
func (e *Extractor) Status(_ context.Context, stream string) (*driving.ExtractStatus, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if status, ok := e.active[stream]; ok {
		// Return a copy to avoid race conditions
		copied := *status
		return &copied, nil
	}

	if bm, ok := e.state.Bookmarks[stream]; ok {
		return &driving.ExtractStatus{Stream: stream, RecordsExtracted: bm.Records}, nil
	}

	return &driving.ExtractStatus{Stream: stream}, nil
}

// State returns a copy of the run state.
func (e *Extractor) State() domain.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotState()
}

func (e *Extractor) begin(stream string) (*driving.ExtractStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, running := e.active[stream]; running {
		return nil, fmt.Errorf("%w: %s", domain.ErrExtractionInProgress, stream)
	}
	status := &driving.ExtractStatus{Stream: stream, Running: true}
	e.active[stream] = status
	return status, nil
}

func (e *Extractor) end(stream string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, stream)
}

func (e *Extractor) pages(stream string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if status, ok := e.active[stream]; ok {
		return status.PagesFetched
	}
	return 0
}

// snapshotState copies the state (caller must hold lock).
func (e *Extractor) snapshotState() domain.State {
	state := domain.NewState(e.state.RunID)
	for k, v := range e.state.Bookmarks {
		state.Bookmarks[k] = v
	}
	return state
}
