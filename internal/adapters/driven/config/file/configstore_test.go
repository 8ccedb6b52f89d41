package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConfigStore_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"user_ids": ["1", "2"],
		"url_patterns": "example.com, news.example.org",
		"include_mentions": true,
		"max_pages": 5,
		"api": {"url": "http://localhost:8080/2"}
	}`)

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, path, store.Path())
	assert.Equal(t, []string{"1", "2"}, store.GetStringSlice("user_ids"))
	assert.Equal(t, "example.com, news.example.org", store.GetString("url_patterns"))
	assert.True(t, store.GetBool("include_mentions"))
	assert.Equal(t, 5, store.GetInt("max_pages"))
	assert.Equal(t, "http://localhost:8080/2", store.GetString("api.url"))
}

func TestNewConfigStore_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
user_ids = ["10", "20"]
include_retweets = true
missing_author_policy = "null"
max_pages = 3

[api]
url = "http://localhost:9090/2"
`)

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "20"}, store.GetStringSlice("user_ids"))
	assert.True(t, store.GetBool("include_retweets"))
	assert.Equal(t, "null", store.GetString("missing_author_policy"))
	assert.Equal(t, 3, store.GetInt("max_pages"))
	assert.Equal(t, "http://localhost:9090/2", store.GetString("api.url"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, "config.json", `{}`))
	require.NoError(t, err)

	_, ok := store.Get("user_ids")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("user_ids"))
	assert.Equal(t, 0, store.GetInt("user_ids"))
	assert.False(t, store.GetBool("user_ids"))
	assert.Nil(t, store.GetStringSlice("user_ids"))
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, "config.json", `{"user_ids": 12, "flag": "TRUE", "name": ["x"]}`))
	require.NoError(t, err)

	assert.Nil(t, store.GetStringSlice("user_ids"))
	assert.True(t, store.GetBool("flag"))
	assert.Equal(t, "", store.GetString("name"))
}

func TestNewConfigStore_Errors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := NewConfigStore("")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfigStore(filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := NewConfigStore(writeConfig(t, "config.json", `{"user_ids": [`))
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := NewConfigStore(writeConfig(t, "config.yaml", "user_ids: [1]"))
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := NewConfigStore(writeConfig(t, "config.toml", `user_ids = [`))
		assert.Error(t, err)
	})
}

func TestFlattenMap(t *testing.T) {
	result := flattenMap(map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": true,
	}, "")

	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, result)
}

func TestNewConfigStore_ExtensionlessIsJSON(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, "config", `{"user_ids": ["1"]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, store.GetStringSlice("user_ids"))
}

func TestConfigStore_NumericIDs(t *testing.T) {
	t.Run("json numbers stay exact", func(t *testing.T) {
		store, err := NewConfigStore(writeConfig(t, "config.json",
			`{"user_ids": ["783214", 2244994945, 1234567890123456789], "max_pages": 7}`))
		require.NoError(t, err)

		assert.Equal(t, []string{"783214", "2244994945", "1234567890123456789"}, store.GetStringSlice("user_ids"))
		assert.Equal(t, 7, store.GetInt("max_pages"))

		raw, ok := store.Get("user_ids")
		require.True(t, ok)
		assert.Equal(t, json.Number("2244994945"), raw.([]any)[1])
	})

	t.Run("toml integers", func(t *testing.T) {
		store, err := NewConfigStore(writeConfig(t, "config.toml", `user_ids = ["783214", 2244994945]`))
		require.NoError(t, err)

		assert.Equal(t, []string{"783214", "2244994945"}, store.GetStringSlice("user_ids"))
	})
}
