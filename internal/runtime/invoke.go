package runtime

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// invoke calls a node and normalizes its output into a Result the loop can
// always merge. A node returning (nil, nil) yields a synthetic no-op Result
// instead of failing: this keeps the loop alive on a malformed node rather
// than aborting the run. Errors pass through untouched; they are fatal to the
// run and handled by the caller.
//
// The adapter never mutates the shared state itself, merging belongs to the
// execution loop.
func invoke(ctx context.Context, node domain.Node, state map[string]any) (*domain.Result, error) {
	res, err := node.Run(ctx, state)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &domain.Result{
			Update: map[string]any{},
			Log:    "node returned no result; no change",
		}, nil
	}
	return res, nil
}
