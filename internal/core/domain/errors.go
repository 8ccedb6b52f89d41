package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent extraction failures.
// These are distinct from transport errors raised by the API client.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown stream or config format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtractionInProgress indicates an extraction is already running for a stream.
	ErrExtractionInProgress = errors.New("extraction in progress")

	// Authentication Errors.

	// ErrAuthRequired indicates no bearer token is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the API rejected the bearer token.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Record Errors.

	// ErrReferentialIntegrity indicates a record references an entity
	// missing from the page's expansions.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrSchemaValidation indicates a record does not conform to its stream schema.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrPaginationLoop indicates the API returned the same pagination token twice.
	ErrPaginationLoop = errors.New("pagination loop detected")
)

// ReferentialIntegrityError reports a tweet whose author is absent from
// a present user lookup table.
type ReferentialIntegrityError struct {
	TweetID  string
	AuthorID string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("tweet %s: author %s not found in includes.users", e.TweetID, e.AuthorID)
}

// Unwrap allows errors.Is(err, ErrReferentialIntegrity).
func (e *ReferentialIntegrityError) Unwrap() error {
	return ErrReferentialIntegrity
}

// SchemaValidationError reports a record rejected by its stream schema.
type SchemaValidationError struct {
	Stream   string
	RecordID string
	Err      error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("stream %s: record %s: %v", e.Stream, e.RecordID, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *SchemaValidationError) Unwrap() []error {
	return []error{ErrSchemaValidation, e.Err}
}
