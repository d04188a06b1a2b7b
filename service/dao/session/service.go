// Package dao defines the persistence contract for session records. Two
// implementations exist: a durable afs-backed store (fs) and an in-memory
// store (memory) used by tests and embedders. The backend is selected at
// process start-up and injected into every handler; there is no singleton.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/viant/warden/model/session"
)

// Common, reusable store errors. Sentinel variables let callers detect error
// conditions via errors.Is instead of brittle string comparisons.
var (
	// ErrInvalidID indicates that the supplied session id is empty.
	ErrInvalidID = errors.New("session: invalid id")

	// ErrNilState is returned when the caller attempts to persist nil state.
	ErrNilState = errors.New("session: nil state")
)

// Summary is the listing projection of a session record.
type Summary struct {
	SessionID   string    `json:"session_id"`
	FirstPrompt string    `json:"first_prompt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	EventCount  int       `json:"event_count"`
}

// Service persists session records keyed by session id.
//
// Get on a missing id returns (nil, nil); absence is not an error. Put must
// be atomic: a crash mid-write never yields a half-written record. Errors
// returned here are infrastructure errors; handlers treat them as
// recoverable and fail open.
type Service interface {
	Get(ctx context.Context, id string) (*session.State, error)

	Put(ctx context.Context, state *session.State) error

	// List returns up to limit summaries sorted by creation time descending.
	// Malformed records are skipped individually rather than aborting the
	// whole listing.
	List(ctx context.Context, limit int) ([]*Summary, error)

	// Delete removes a record; deleting a missing id is a no-op.
	Delete(ctx context.Context, id string) error
}

// Summarize projects a full state onto its listing row.
func Summarize(state *session.State) *Summary {
	summary := &Summary{
		SessionID:  state.SessionID,
		CreatedAt:  state.CreatedAt,
		EventCount: len(state.Trace),
	}
	if len(state.Review.UserPrompts) > 0 {
		summary.FirstPrompt = state.Review.UserPrompts[0]
	}
	return summary
}
