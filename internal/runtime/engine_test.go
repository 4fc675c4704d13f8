package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/internal/adapters/memory"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValue(key string, value any) domain.Node {
	return domain.UpdateFunc(func(ctx context.Context, state map[string]any) (map[string]any, error) {
		return map[string]any{key: value}, nil
	})
}

func TestEngine_TwoNodeChain(t *testing.T) {
	store := memory.New()
	eng := runtime.NewEngine(store)

	graphID := eng.CreateGraph(&domain.Graph{
		Start: "N1",
		Nodes: map[string]domain.Node{
			"N1": setValue("x", 1),
			"N2": setValue("x", 2),
		},
		Edges: map[string]domain.Edge{
			"N1": domain.Goto("N2"),
		},
	})

	ctx := context.Background()
	runID, err := eng.Run(ctx, graphID, map[string]any{}, false)
	require.NoError(t, err)

	run, err := eng.GetRun(ctx, runID)
	require.NoError(t, err)

	assert.True(t, run.Finished)
	assert.Empty(t, run.Error)
	assert.Empty(t, run.CurrentNode)
	assert.Equal(t, 2, run.State["x"], "later merge overwrites the earlier value")
	assert.Equal(t, []string{
		"running N1",
		"N1: node returned state update",
		"N1 -> next: N2",
		"running N2",
		"N2: node returned state update",
		"N2 -> next: none",
	}, run.Logs)
}

func TestEngine_GraphNotFound(t *testing.T) {
	store := memory.New()
	eng := runtime.NewEngine(store)

	_, err := eng.Run(context.Background(), "no-such-graph", nil, false)
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)

	// No run record may appear for a rejected request.
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEngine_NodeNotFound(t *testing.T) {
	eng := runtime.NewEngine(memory.New())

	graphID := eng.CreateGraph(&domain.Graph{
		Start: "N1",
		Nodes: map[string]domain.Node{"N1": setValue("x", 1)},
		Edges: map[string]domain.Edge{"N1": domain.Goto("missing")},
	})

	ctx := context.Background()
	runID, err := eng.Run(ctx, graphID, nil, false)
	require.NoError(t, err)

	run, err := eng.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.True(t, run.Finished)
	assert.Equal(t, "node not found: missing", run.Error)
	// The failing step is announced but nothing executes after it.
	assert.Equal(t, "running missing", run.Logs[len(run.Logs)-1])
}

func TestEngine_BudgetExhaustion(t *testing.T) {
	eng := runtime.NewEngine(memory.New())

	count := 0
	graphID := eng.CreateGraph(&domain.Graph{
		Start:    "loop",
		MaxSteps: 5,
		Nodes: map[string]domain.Node{
			"loop": domain.UpdateFunc(func(ctx context.Context, state map[string]any) (map[string]any, error) {
				count++
				return map[string]any{"count": count}, nil
			}),
		},
		Edges: map[string]domain.Edge{"loop": domain.Goto("loop")},
	})

	ctx := context.Background()
	runID, err := eng.Run(ctx, graphID, nil, false)
	require.NoError(t, err)

	run, err := eng.GetRun(ctx, runID)
	require.NoError(t, err)

	assert.True(t, run.Finished)
	assert.Empty(t, run.Error, "budget exhaustion is a cutoff, not a failure")
	assert.Equal(t, 5, count, "the loop executes exactly the budgeted number of steps")
	assert.Equal(t, "max steps reached; aborting", run.Logs[len(run.Logs)-1])
}

func TestEngine_NodeFailureIsFatalToTheRunOnly(t *testing.T) {
	eng := runtime.NewEngine(memory.New())

	graphID := eng.CreateGraph(&domain.Graph{
		Start: "bad",
		Nodes: map[string]domain.Node{
			"bad": domain.NodeFunc(func(ctx context.Context, state map[string]any) (*domain.Result, error) {
				return nil, assert.AnError
			}),
			"ok": setValue("x", 1),
		},
		Edges: map[string]domain.Edge{"bad": domain.Goto("ok")},
	})

	ctx := context.Background()
	runID, err := eng.Run(ctx, graphID, nil, false)
	require.NoError(t, err)

	run, err := eng.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.True(t, run.Finished)
	assert.Contains(t, run.Error, "node bad failed")

	// The engine stays usable for other runs.
	okID := eng.CreateGraph(&domain.Graph{
		Start: "ok",
		Nodes: map[string]domain.Node{"ok": setValue("x", 1)},
	})
	runID2, err := eng.Run(ctx, okID, nil, false)
	require.NoError(t, err)
	run2, err := eng.GetRun(ctx, runID2)
	require.NoError(t, err)
	assert.Empty(t, run2.Error)
}

func TestEngine_EmptyStartNode(t *testing.T) {
	eng := runtime.NewEngine(memory.New())

	graphID := eng.CreateGraph(&domain.Graph{
		Nodes: map[string]domain.Node{"n": setValue("x", 1)},
	})

	ctx := context.Background()
	runID, err := eng.Run(ctx, graphID, nil, false)
	require.NoError(t, err)

	run, err := eng.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.True(t, run.Finished)
	assert.Equal(t, "graph has no start node", run.Error)
}

func TestEngine_MergeIsIdempotent(t *testing.T) {
	eng := runtime.NewEngine(memory.New())

	// The same update applied twice must not accumulate artifacts.
	graphID := eng.CreateGraph(&domain.Graph{
		Start:    "a",
		MaxSteps: 2,
		Nodes:    map[string]domain.Node{"a": setValue("a", 1)},
		Edges:    map[string]domain.Edge{"a": domain.Goto("a")},
	})

	ctx := context.Background()
	runID, err := eng.Run(ctx, graphID, map[string]any{"a": 0, "b": 2}, false)
	require.NoError(t, err)

	run, err := eng.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.State["a"])
	assert.Equal(t, 2, run.State["b"], "keys missing from the update stay untouched")
}

func TestEngine_InitialStateIsCopied(t *testing.T) {
	eng := runtime.NewEngine(memory.New())

	graphID := eng.CreateGraph(&domain.Graph{
		Start: "n",
		Nodes: map[string]domain.Node{"n": setValue("x", 99)},
	})

	initial := map[string]any{"seed": true}
	_, err := eng.Run(context.Background(), graphID, initial, false)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"seed": true}, initial, "the caller's map stays untouched")
}

func TestEngine_GetRunUnknown(t *testing.T) {
	eng := runtime.NewEngine(memory.New())

	_, err := eng.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
