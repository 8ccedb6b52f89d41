package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
)

// setupTestStore creates a record store in a temporary directory.
func setupTestStore(t *testing.T) *RecordStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "records.db")
	store, err := NewRecordStore(context.Background(), dbPath, uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func usersDefinition() domain.StreamDefinition {
	return domain.StreamDefinition{
		Name:        "users",
		PrimaryKeys: []string{"id"},
		Schema:      []byte(`{"type":"object"}`),
	}
}

func TestNewRecordStore_RequiresPathAndRun(t *testing.T) {
	_, err := NewRecordStore(context.Background(), "", "run")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewRecordStore(context.Background(), filepath.Join(t.TempDir(), "x.db"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewRecordStore_ReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "records.db")

	first, err := NewRecordStore(ctx, dbPath, uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, first.WriteSchema(ctx, usersDefinition()))
	require.NoError(t, first.WriteRecord(ctx, "users", domain.Record{"id": "1"}, time.Now()))
	require.NoError(t, first.Close())

	second, err := NewRecordStore(ctx, dbPath, uuid.NewString())
	require.NoError(t, err)
	defer second.Close()

	n, err := second.Count(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordStore_UpsertsByPrimaryKey(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.WriteSchema(ctx, usersDefinition()))

	require.NoError(t, store.WriteRecord(ctx, "users", domain.Record{"id": "1", "name": "old"}, time.Now()))
	require.NoError(t, store.WriteRecord(ctx, "users", domain.Record{"id": "1", "name": "new"}, time.Now()))
	require.NoError(t, store.WriteRecord(ctx, "users", domain.Record{"id": "2", "name": "other"}, time.Now()))

	n, err := store.Count(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := store.Get(ctx, "users", "1")
	require.NoError(t, err)
	assert.Equal(t, "new", got["name"])
}

func TestRecordStore_NestedRecordRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.WriteSchema(ctx, domain.StreamDefinition{Name: "tweets", PrimaryKeys: []string{"id"}}))

	record := domain.Record{
		"id":                   "10",
		"expansion__author_id": map[string]any{"id": "u1"},
		"media":                nil,
	}
	require.NoError(t, store.WriteRecord(ctx, "tweets", record, time.Now()))

	got, err := store.Get(ctx, "tweets", "10")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "u1"}, got["expansion__author_id"])
	assert.Contains(t, got, "media")
	assert.Nil(t, got["media"])
}

func TestRecordStore_WriteRecordWithoutSchema(t *testing.T) {
	store := setupTestStore(t)

	err := store.WriteRecord(context.Background(), "users", domain.Record{"id": "1"}, time.Now())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_WriteRecordWithoutKey(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.WriteSchema(ctx, usersDefinition()))

	err := store.WriteRecord(ctx, "users", domain.Record{"name": "no id"}, time.Now())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "users", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_WriteState(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.RunState(ctx, store.RunID())
	assert.ErrorIs(t, err, domain.ErrNotFound, "no state before the run finishes")

	state := domain.NewState(store.RunID())
	state.Bookmarks["users"] = domain.Bookmark{Records: 3, CompletedAt: time.Now().UTC()}
	require.NoError(t, store.WriteState(ctx, state))

	got, err := store.RunState(ctx, store.RunID())
	require.NoError(t, err)
	assert.Equal(t, store.RunID(), got.RunID)
	assert.Equal(t, 3, got.Bookmarks["users"].Records)
}
