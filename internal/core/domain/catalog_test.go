package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogEntry_Selected(t *testing.T) {
	tests := []struct {
		name     string
		metadata []CatalogMetadata
		want     bool
	}{
		{"no metadata", nil, true},
		{"selected true", []CatalogMetadata{{Breadcrumb: []string{}, Metadata: map[string]any{"selected": true}}}, true},
		{"selected false", []CatalogMetadata{{Breadcrumb: []string{}, Metadata: map[string]any{"selected": false}}}, false},
		{"no selected flag", []CatalogMetadata{{Breadcrumb: []string{}, Metadata: map[string]any{"inclusion": "available"}}}, true},
		{
			"property breadcrumb ignored",
			[]CatalogMetadata{{Breadcrumb: []string{"properties", "text"}, Metadata: map[string]any{"selected": false}}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := CatalogEntry{TapStreamID: "tweets", Metadata: tt.metadata}
			assert.Equal(t, tt.want, entry.Selected())
		})
	}
}

func TestCatalog_Entry(t *testing.T) {
	c := &Catalog{Streams: []CatalogEntry{{TapStreamID: "tweets"}, {TapStreamID: "users"}}}

	entry, ok := c.Entry("users")
	assert.True(t, ok)
	assert.Equal(t, "users", entry.TapStreamID)

	_, ok = c.Entry("likes")
	assert.False(t, ok)
}

func TestStreamDefinition_Clone(t *testing.T) {
	def := StreamDefinition{
		Name:        "tweets",
		PrimaryKeys: []string{"id"},
		Fields:      FieldSelection{TweetFields: []string{"id", "text"}},
	}

	clone := def.Clone()
	clone.PrimaryKeys[0] = "changed"
	clone.Fields.TweetFields[0] = "changed"

	assert.Equal(t, "id", def.PrimaryKeys[0])
	assert.Equal(t, "id", def.Fields.TweetFields[0])
	assert.True(t, def.IsFullTable())
}
