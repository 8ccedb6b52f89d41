package twitter

import (
	"iter"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
)

// LookupTable maps a related entity's natural identifier to its record.
// Iteration follows the order the entities were first seen in includes.
// Tables are built per page and never shared across pages.
type LookupTable struct {
	keys    []string
	records map[string]domain.Record
}

// NewLookupTable indexes records by keyField. A later record with a
// repeated key replaces the earlier one but keeps its position.
func NewLookupTable(records []domain.Record, keyField string) *LookupTable {
	t := &LookupTable{
		keys:    make([]string, 0, len(records)),
		records: make(map[string]domain.Record, len(records)),
	}
	for _, r := range records {
		key := r.String(keyField)
		if _, seen := t.records[key]; !seen {
			t.keys = append(t.keys, key)
		}
		t.records[key] = r
	}
	return t
}

// Get returns the record for key.
func (t *LookupTable) Get(key string) (domain.Record, bool) {
	if t == nil {
		return nil, false
	}
	r, ok := t.records[key]
	return r, ok
}

// Len returns the number of distinct keys.
func (t *LookupTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// All iterates the table in insertion order.
func (t *LookupTable) All() iter.Seq2[string, domain.Record] {
	return func(yield func(string, domain.Record) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.records[k]) {
				return
			}
		}
	}
}
