package domain

import "context"

// Node is a single unit of work in a graph. It receives the current shared
// run state and proposes an update through a Result.
//
// A Node must not mutate the state map it receives; merging is owned by the
// execution loop. Implementations may block or perform their own asynchronous
// work internally, the engine always invokes them through the same contract.
type Node interface {
	Run(ctx context.Context, state map[string]any) (*Result, error)
}

// NodeFunc adapts a plain function to the Node interface.
type NodeFunc func(ctx context.Context, state map[string]any) (*Result, error)

// Run implements Node.
func (f NodeFunc) Run(ctx context.Context, state map[string]any) (*Result, error) {
	return f(ctx, state)
}

// UpdateFunc adapts a function that returns a bare state-update map instead
// of a full Result. The update is wrapped into a synthetic Result with a
// fixed log line, so the execution loop always sees a uniform shape.
type UpdateFunc func(ctx context.Context, state map[string]any) (map[string]any, error)

// Run implements Node.
func (f UpdateFunc) Run(ctx context.Context, state map[string]any) (*Result, error) {
	update, err := f(ctx, state)
	if err != nil {
		return nil, err
	}
	return &Result{Update: update, Log: "node returned state update"}, nil
}
