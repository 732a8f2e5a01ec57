package triage

import "context"

// Store is the persistence interface for case records. Implementations must
// guarantee that Update runs its mutation under per-case exclusion (one
// writer per case at a time) and that Get/List return complete copies, never
// views into shared state.
type Store interface {
	// Create persists a new case. The id must not already exist.
	Create(ctx context.Context, c *Case) error

	// Get returns a copy of the case, or ok=false when the id is unknown.
	Get(ctx context.Context, id string) (*Case, bool, error)

	// Update applies fn to the stored case atomically. If fn returns an
	// error the stored record is left untouched and the error is returned
	// unwrapped, so callers' typed errors survive. On success the updated
	// copy is returned.
	Update(ctx context.Context, id string, fn func(*Case) error) (*Case, bool, error)

	// List returns copies of cases, newest first, optionally filtered by
	// status. limit <= 0 means no limit.
	List(ctx context.Context, status Status, limit int) ([]*Case, error)
}
