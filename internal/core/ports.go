package core

import (
	"context"
	"errors"
	"iter"
)

var (
	// ErrSnapshotNotFound is returned when no snapshot matches a lookup
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrEmptyCorpus is returned when a run finds no documents
	ErrEmptyCorpus = errors.New("corpus has no documents")
	// ErrNoReviewer is returned when a review is requested without a reviewer
	ErrNoReviewer = errors.New("no contact reviewer configured")
)

// DocumentSource streams the raw documents of a corpus
type DocumentSource interface {
	// Documents yields one unit at a time. A unit's backing resource is
	// released before it is yielded, and iteration stops at the first error.
	Documents(ctx context.Context) iter.Seq2[*RawDocument, error]
}

// SnapshotRepository persists clustering snapshots
type SnapshotRepository interface {
	// Save stores a snapshot, replacing any with the same run and pass
	Save(ctx context.Context, snapshot *Snapshot) error

	// Load returns the latest pass stored for runID
	Load(ctx context.Context, runID string) (*Snapshot, error)

	// Latest returns the most recently created snapshot of any run
	Latest(ctx context.Context) (*Snapshot, error)

	// Close releases the repository's resources
	Close() error
}

// ContactSuggestion is a reviewer's proposed reading of a mangled contact.
type ContactSuggestion struct {
	DocumentID  string  `json:"document_id,omitempty"`
	Raw         string  `json:"raw"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
	ModelUsed   string  `json:"model_used"`
}

// ContactReviewer proposes a name/address split for contacts the heuristics could not parse cleanly
type ContactReviewer interface {
	ReviewContact(ctx context.Context, contact *Contact) (*ContactSuggestion, error)
}
