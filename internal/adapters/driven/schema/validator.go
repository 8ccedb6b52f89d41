// Package schema validates records against their stream's JSON Schema.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.SchemaValidator = (*Validator)(nil)

// Validator compiles each stream schema once and validates records against it.
type Validator struct {
	mu       sync.Mutex
	resolved map[string]*jsonschema.Resolved
}

// NewValidator creates an empty validator.
func NewValidator() *Validator {
	return &Validator{resolved: make(map[string]*jsonschema.Resolved)}
}

// Validate checks record against the stream's schema.
func (v *Validator) Validate(stream domain.StreamDefinition, record domain.Record) error {
	rs, err := v.resolve(stream)
	if err != nil {
		return err
	}

	instance, err := toJSONValue(record)
	if err != nil {
		return err
	}
	return rs.Validate(instance)
}

func (v *Validator) resolve(stream domain.StreamDefinition) (*jsonschema.Resolved, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if rs, ok := v.resolved[stream.Name]; ok {
		return rs, nil
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(stream.Schema, &s); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", stream.Name, err)
	}
	rs, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema %s: %w", stream.Name, err)
	}

	v.resolved[stream.Name] = rs
	return rs, nil
}

// toJSONValue converts a record to plain JSON values (map[string]any,
// []any, float64, ...), the instance shape the validator expects.
func toJSONValue(record domain.Record) (any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return instance, nil
}
