package memory

import (
	"context"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Store implements ports.RunStore with an in-process map. This is the default
// registry: records live for process lifetime, there is no teardown.
type Store struct {
	mu   sync.RWMutex
	runs map[string]*domain.Run
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		runs: make(map[string]*domain.Run),
	}
}

// Save stores a snapshot of the run. The record is cloned on the way in so
// the caller's live record stays exclusively its own.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	snapshot := run.Clone()
	s.mu.Lock()
	s.runs[run.RunID] = snapshot
	s.mu.Unlock()
	return nil
}

// Load returns a copy of the latest snapshot.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	s.mu.RLock()
	run, ok := s.runs[runID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run.Clone(), nil
}

// Delete removes the record for a run ID.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	delete(s.runs, runID)
	s.mu.Unlock()
	return nil
}

// List returns the known run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	return ids, nil
}
