// Package sqlite provides a SQLite-backed record sink.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single database file holds:
//
//   - extraction_runs: one row per run, with the final state document
//   - streams: the last schema written for each stream
//   - records: the latest copy of every record, keyed by stream and primary key
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
