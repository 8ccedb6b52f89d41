package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/tap-twitter/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordSink = (*RecordStore)(nil)

// RecordStore persists extracted records, upserting by stream and primary key.
type RecordStore struct {
	db    *sql.DB
	path  string
	runID string

	mu   sync.RWMutex
	keys map[string][]string
}

// NewRecordStore opens (or creates) the database at dbPath and registers runID
// as a new extraction run.
func NewRecordStore(ctx context.Context, dbPath, runID string) (*RecordStore, error) {
	if dbPath == "" || runID == "" {
		return nil, fmt.Errorf("%w: database path and run id are required", domain.ErrInvalidInput)
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &RecordStore{
		db:    db,
		path:  dbPath,
		runID: runID,
		keys:  make(map[string][]string),
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO extraction_runs (id, started_at) VALUES (?, ?)`,
		runID, formatTime(time.Now()))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("registering run %s: %w", runID, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *RecordStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *RecordStore) Path() string {
	return s.path
}

// RunID returns the run this store writes under.
func (s *RecordStore) RunID() string {
	return s.runID
}

// migrate runs all pending up migrations in version order.
func (s *RecordStore) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// WriteSchema stores the stream's schema and remembers its primary keys.
func (s *RecordStore) WriteSchema(ctx context.Context, stream domain.StreamDefinition) error {
	keys, err := json.Marshal(stream.PrimaryKeys)
	if err != nil {
		return fmt.Errorf("encoding key properties: %w", err)
	}
	schema := string(stream.Schema)
	if schema == "" {
		schema = "{}"
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO streams (name, schema, key_properties, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			schema = excluded.schema,
			key_properties = excluded.key_properties,
			updated_at = excluded.updated_at
	`, stream.Name, schema, string(keys), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("saving stream %s: %w", stream.Name, err)
	}

	s.mu.Lock()
	s.keys[stream.Name] = append([]string(nil), stream.PrimaryKeys...)
	s.mu.Unlock()
	return nil
}

// WriteRecord upserts the record under its primary key. The stream's schema
// must have been written first.
func (s *RecordStore) WriteRecord(ctx context.Context, stream string, record domain.Record, extractedAt time.Time) error {
	s.mu.RLock()
	keys, ok := s.keys[stream]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: no schema written for stream %s", domain.ErrNotFound, stream)
	}

	recordID := record.Key(keys)
	if recordID == "" {
		return fmt.Errorf("%w: record in stream %s has no primary key", domain.ErrInvalidInput, stream)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", recordID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (stream, record_id, run_id, data, extracted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(stream, record_id) DO UPDATE SET
			run_id = excluded.run_id,
			data = excluded.data,
			extracted_at = excluded.extracted_at
	`, stream, recordID, s.runID, string(data), formatTime(extractedAt))
	if err != nil {
		return fmt.Errorf("saving record %s/%s: %w", stream, recordID, err)
	}
	return nil
}

// WriteState stores the state document on the current run.
func (s *RecordStore) WriteState(ctx context.Context, state domain.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE extraction_runs SET state = ?, finished_at = ? WHERE id = ?`,
		string(data), formatTime(time.Now()), s.runID)
	if err != nil {
		return fmt.Errorf("saving state for run %s: %w", s.runID, err)
	}
	return nil
}

// Get returns the stored copy of a record.
func (s *RecordStore) Get(ctx context.Context, stream, recordID string) (domain.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE stream = ? AND record_id = ?`,
		stream, recordID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading record %s/%s: %w", stream, recordID, err)
	}

	var record domain.Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("decoding record %s/%s: %w", stream, recordID, err)
	}
	return record, nil
}

// Count returns the number of distinct records stored for a stream.
func (s *RecordStore) Count(ctx context.Context, stream string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE stream = ?`, stream).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting records in %s: %w", stream, err)
	}
	return n, nil
}

// RunState returns the state document saved for a run.
func (s *RecordStore) RunState(ctx context.Context, runID string) (*domain.State, error) {
	var data sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM extraction_runs WHERE id = ?`, runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	if !data.Valid {
		return nil, domain.ErrNotFound
	}

	var state domain.State
	if err := json.Unmarshal([]byte(data.String), &state); err != nil {
		return nil, fmt.Errorf("decoding state for run %s: %w", runID, err)
	}
	return &state, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
