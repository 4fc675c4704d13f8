package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// RunStore defines the interface for publishing run records. The execution
// loop saves a snapshot after every step and at termination; pollers only
// ever read through the store, so they always observe a whole step.
//
// Records are kept for process lifetime by the default in-memory adapter;
// durable history is deliberately out of scope, a store merely makes the
// registry pluggable.
type RunStore interface {
	// Save publishes a snapshot of the run. The caller keeps ownership of
	// the live record; implementations must not retain mutable references.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves the latest snapshot for a run ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.Run, error)

	// Delete removes the record for a run ID.
	Delete(ctx context.Context, runID string) error

	// List returns the known run IDs.
	List(ctx context.Context) ([]string, error)
}
