package domain

// Record is a single entity as decoded from the API, optionally augmented
// with denormalised sub-records.
type Record map[string]any

// ID returns the record's "id" field as a string, or "" if absent.
func (r Record) ID() string {
	return r.String("id")
}

// String returns a string field, or "" when absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Key returns the values of the given primary key fields joined by "|".
// Missing fields contribute an empty segment.
func (r Record) Key(primaryKeys []string) string {
	switch len(primaryKeys) {
	case 0:
		return ""
	case 1:
		return r.String(primaryKeys[0])
	}
	key := r.String(primaryKeys[0])
	for _, pk := range primaryKeys[1:] {
		key += "|" + r.String(pk)
	}
	return key
}

// RawPage is one decoded API response body.
type RawPage struct {
	// Data holds the primary entities in response order.
	Data []Record `json:"data"`

	// Includes maps an expansion category ("users", "media") to its entities.
	// Nil when the response carried no includes.
	Includes map[string][]Record `json:"includes,omitempty"`

	// Meta carries pagination state.
	Meta PageMeta `json:"meta"`

	// Errors lists partial errors returned alongside a successful response,
	// e.g. unknown ids in a user lookup.
	Errors []Record `json:"errors,omitempty"`
}

// PageMeta is the pagination block of a response.
type PageMeta struct {
	ResultCount int    `json:"result_count,omitempty"`
	NextToken   string `json:"next_token,omitempty"`
	NewestID    string `json:"newest_id,omitempty"`
	OldestID    string `json:"oldest_id,omitempty"`
}

// Included returns the related entities of a category and whether the
// category was present in the response.
func (p *RawPage) Included(category string) ([]Record, bool) {
	if p.Includes == nil {
		return nil, false
	}
	records, ok := p.Includes[category]
	return records, ok
}
