package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tap-twitter/internal/connectors/twitter"
	"github.com/custodia-labs/tap-twitter/internal/core/domain"
)

func TestValidator_Tweets(t *testing.T) {
	v := NewValidator()
	def := twitter.TweetsDefinition()

	t.Run("accepts denormalised tweet", func(t *testing.T) {
		record := domain.Record{
			"id":                   "t1",
			"text":                 "hello",
			"author_id":            "u1",
			"attachments":          map[string]any{"media_keys": []any{"m1"}},
			"public_metrics":       map[string]any{"like_count": 3.0},
			"expansion__author_id": domain.Record{"id": "u1", "name": "X"},
			"media":                []any{domain.Record{"media_key": "m1", "type": "photo"}},
		}

		assert.NoError(t, v.Validate(def, record))
	})

	t.Run("accepts null expansions", func(t *testing.T) {
		record := domain.Record{"id": "t1", "expansion__author_id": nil, "media": nil}

		assert.NoError(t, v.Validate(def, record))
	})

	t.Run("rejects missing expansion fields", func(t *testing.T) {
		record := domain.Record{"id": "t1"}

		assert.Error(t, v.Validate(def, record))
	})

	t.Run("rejects wrong type", func(t *testing.T) {
		record := domain.Record{"id": 42.0, "expansion__author_id": nil, "media": nil}

		assert.Error(t, v.Validate(def, record))
	})
}

func TestValidator_Users(t *testing.T) {
	v := NewValidator()
	def := twitter.UsersDefinition()

	require.NoError(t, v.Validate(def, domain.Record{"id": "1", "name": "A", "protected": false}))
	assert.Error(t, v.Validate(def, domain.Record{"name": "no id"}))
}

func TestValidator_InvalidSchema(t *testing.T) {
	v := NewValidator()
	def := domain.StreamDefinition{Name: "broken", Schema: []byte(`{"type": `)}

	err := v.Validate(def, domain.Record{"id": "1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse schema broken")
}
