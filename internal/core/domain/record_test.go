package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_ID(t *testing.T) {
	assert.Equal(t, "t1", Record{"id": "t1"}.ID())
	assert.Equal(t, "", Record{}.ID())
	assert.Equal(t, "", Record{"id": 12.0}.ID())
}

func TestRecord_Key(t *testing.T) {
	r := Record{"id": "1", "stream": "tweets"}

	assert.Equal(t, "", r.Key(nil))
	assert.Equal(t, "1", r.Key([]string{"id"}))
	assert.Equal(t, "tweets|1", r.Key([]string{"stream", "id"}))
	assert.Equal(t, "1|", r.Key([]string{"id", "missing"}))
}

func TestRawPage_Decode(t *testing.T) {
	body := `{
		"data": [{"id": "t1", "author_id": "u1"}],
		"includes": {"users": [{"id": "u1"}]},
		"meta": {"result_count": 1, "next_token": "abc"}
	}`

	var page RawPage
	require.NoError(t, json.Unmarshal([]byte(body), &page))

	require.Len(t, page.Data, 1)
	assert.Equal(t, "t1", page.Data[0].ID())
	assert.Equal(t, "abc", page.Meta.NextToken)
	assert.Equal(t, 1, page.Meta.ResultCount)

	users, ok := page.Included("users")
	assert.True(t, ok)
	assert.Len(t, users, 1)

	_, ok = page.Included("media")
	assert.False(t, ok)
}

func TestRawPage_IncludedWithoutIncludes(t *testing.T) {
	var page RawPage
	require.NoError(t, json.Unmarshal([]byte(`{"data": []}`), &page))

	records, ok := page.Included("users")
	assert.False(t, ok)
	assert.Nil(t, records)
}
