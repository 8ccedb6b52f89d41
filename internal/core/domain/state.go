package domain

import "time"

// State is the run state emitted after each stream. Full-table streams
// carry no replication bookmark, only completion markers.
type State struct {
	// RunID identifies the extraction run.
	RunID string `json:"run_id,omitempty"`

	// Bookmarks maps a stream name to its bookmark.
	Bookmarks map[string]Bookmark `json:"bookmarks"`
}

// Bookmark records the completion of one stream.
type Bookmark struct {
	// CompletedAt is when the stream finished.
	CompletedAt time.Time `json:"completed_at"`

	// Records is the number of records emitted.
	Records int `json:"records"`
}

// NewState returns an empty state for a run.
func NewState(runID string) State {
	return State{
		RunID:     runID,
		Bookmarks: make(map[string]Bookmark),
	}
}
