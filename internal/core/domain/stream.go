package domain

import "slices"

// FieldSelection lists the fields and expansions requested from the API.
type FieldSelection struct {
	TweetFields []string
	UserFields  []string
	MediaFields []string
	Expansions  []string
}

// StreamDefinition is the static descriptor of one extractable record type.
// Values are built by constructor functions and treated as immutable.
type StreamDefinition struct {
	// Name uniquely identifies the stream (e.g. "tweets").
	Name string

	// Path is the API endpoint relative to the base URL.
	Path string

	// PrimaryKeys form the stable identity of a record.
	PrimaryKeys []string

	// ReplicationKey is empty for full-table streams.
	ReplicationKey string

	// Schema is the JSON Schema document records must conform to.
	Schema []byte

	// Fields are the API field selections for this stream.
	Fields FieldSelection
}

// IsFullTable reports whether every run re-extracts the whole stream.
func (d StreamDefinition) IsFullTable() bool {
	return d.ReplicationKey == ""
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (d StreamDefinition) Clone() StreamDefinition {
	return StreamDefinition{
		Name:           d.Name,
		Path:           d.Path,
		PrimaryKeys:    slices.Clone(d.PrimaryKeys),
		ReplicationKey: d.ReplicationKey,
		Schema:         slices.Clone(d.Schema),
		Fields: FieldSelection{
			TweetFields: slices.Clone(d.Fields.TweetFields),
			UserFields:  slices.Clone(d.Fields.UserFields),
			MediaFields: slices.Clone(d.Fields.MediaFields),
			Expansions:  slices.Clone(d.Fields.Expansions),
		},
	}
}
