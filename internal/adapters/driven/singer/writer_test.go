package singer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var messages []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var msg map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &msg))
		messages = append(messages, msg)
	}
	return messages
}

func TestWriter_Messages(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	ctx := context.Background()

	def := domain.StreamDefinition{
		Name:        "tweets",
		PrimaryKeys: []string{"id"},
		Schema:      []byte(`{"type":"object"}`),
	}
	extracted := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, w.WriteSchema(ctx, def))
	require.NoError(t, w.WriteRecord(ctx, "tweets", domain.Record{"id": "t1", "text": "a <b>"}, extracted))
	state := domain.NewState("run-1")
	state.Bookmarks["tweets"] = domain.Bookmark{CompletedAt: extracted, Records: 1}
	require.NoError(t, w.WriteState(ctx, state))

	raw := buf.String()
	messages := decodeLines(t, &buf)
	require.Len(t, messages, 3)

	assert.Equal(t, "SCHEMA", messages[0]["type"])
	assert.Equal(t, "tweets", messages[0]["stream"])
	assert.Equal(t, []any{"id"}, messages[0]["key_properties"])
	assert.NotContains(t, messages[0], "bookmark_properties")

	assert.Equal(t, "RECORD", messages[1]["type"])
	assert.Equal(t, "2024-05-01T12:00:00Z", messages[1]["time_extracted"])
	assert.Equal(t, "a <b>", messages[1]["record"].(map[string]any)["text"])

	assert.Equal(t, "STATE", messages[2]["type"])
	value := messages[2]["value"].(map[string]any)
	assert.Equal(t, "run-1", value["run_id"])
	assert.Contains(t, value["bookmarks"], "tweets")

	assert.Contains(t, raw, `"a <b>"`)
}

func TestWriter_NullExpansionsAreKept(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	record := domain.Record{"id": "t1", "expansion__author_id": nil, "media": nil}
	require.NoError(t, w.WriteRecord(context.Background(), "tweets", record, time.Now()))

	assert.Contains(t, buf.String(), `"expansion__author_id":null`)
	assert.Contains(t, buf.String(), `"media":null`)
}

func TestWriter_BookmarkProperties(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	def := domain.StreamDefinition{Name: "s", Schema: []byte(`{}`), ReplicationKey: "created_at"}
	require.NoError(t, w.WriteSchema(context.Background(), def))

	messages := decodeLines(t, &buf)
	require.Len(t, messages, 1)
	assert.Equal(t, []any{"created_at"}, messages[0]["bookmark_properties"])
}
