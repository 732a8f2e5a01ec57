// Package memstore provides an in-memory implementation of triage.Store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/casetriage/internal/triage"
)

// Store holds case records in memory. Suitable for dev/testing and
// single-instance deployments without a database.
type Store struct {
	mu    sync.RWMutex
	cases map[string]*triage.Case // case ID -> record
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{cases: make(map[string]*triage.Case)}
}

// Create stores a copy of the case. The id must be new.
func (s *Store) Create(_ context.Context, c *triage.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[c.ID]; ok {
		return xerrors.New("case already exists: " + c.ID)
	}
	s.cases[c.ID] = c.Clone()
	return nil
}

// Get retrieves a case by its ID. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*triage.Case, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, false, nil
	}
	return c.Clone(), true, nil
}

// Update applies fn to a copy of the stored case under the write lock and
// swaps it in only when fn succeeds, so a failed mutation leaves the record
// untouched. fn's error is returned as-is.
func (s *Store) Update(_ context.Context, id string, fn func(*triage.Case) error) (*triage.Case, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, false, nil
	}
	work := c.Clone()
	if err := fn(work); err != nil {
		return nil, true, err
	}
	s.cases[id] = work
	return work.Clone(), true, nil
}

// List returns copies of stored cases, newest first, optionally filtered by
// status. limit <= 0 means no limit.
func (s *Store) List(_ context.Context, status triage.Status, limit int) ([]*triage.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*triage.Case, 0, len(s.cases))
	for _, c := range s.cases {
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
