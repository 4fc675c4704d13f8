package codereview

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/internal/adapters/memory"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample scores a total complexity of 5 and 3 smell issues, so the derived
// quality score is 100 - 5*5 - 3*10 = 45.
const sample = `def foo(x):
    # TODO: fix this
    if x > 0:
        print(x)

def bar(y):
    for i in range(y):
        if i % 2 == 0:
            print(i)
`

func TestExtractFunctions(t *testing.T) {
	res, err := extractFunctions(context.Background(), map[string]any{"code": sample})
	require.NoError(t, err)
	assert.Equal(t, "extracted 2 function(s)", res.Log)

	funcs, ok := res.Update["functions"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, funcs, 2)
	assert.Equal(t, "foo", funcs[0]["name"])
	assert.Equal(t, "bar", funcs[1]["name"])
	assert.Contains(t, funcs[0]["code"], "print(x)")
	assert.Contains(t, funcs[1]["code"], "for i in range(y):")
}

func TestExtractFunctions_NoCode(t *testing.T) {
	res, err := extractFunctions(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "extracted 0 function(s)", res.Log)
	assert.Empty(t, res.Update["functions"])
}

func TestCheckDone(t *testing.T) {
	t.Run("above threshold terminates", func(t *testing.T) {
		res, err := checkDone(context.Background(), map[string]any{
			"quality_score": 90.0,
			"threshold":     85,
		})
		require.NoError(t, err)
		assert.Empty(t, res.Next)
		assert.Equal(t, "quality 90 >= threshold 85", res.Log)
	})

	t.Run("below threshold loops", func(t *testing.T) {
		res, err := checkDone(context.Background(), map[string]any{
			"quality_score": 45.0,
			"threshold":     85,
		})
		require.NoError(t, err)
		assert.Equal(t, "check_complexity", res.Next)
		assert.Equal(t, "quality 45 < threshold 85; looping", res.Log)
	})

	t.Run("default threshold is 80", func(t *testing.T) {
		res, err := checkDone(context.Background(), map[string]any{"quality_score": 80.0})
		require.NoError(t, err)
		assert.Empty(t, res.Next)
	})
}

func TestPipeline_FinishesWhenScoreClearsThreshold(t *testing.T) {
	reg := registry.New()
	tools := registry.NewTools()
	Register(reg, tools)

	eng := runtime.NewEngine(memory.New())
	graphID := eng.CreateGraph(Graph(reg, 50))

	ctx := context.Background()
	runID, err := eng.Run(ctx, graphID, map[string]any{
		"code":      sample,
		"threshold": 40,
	}, false)
	require.NoError(t, err)

	run, err := eng.GetRun(ctx, runID)
	require.NoError(t, err)

	assert.True(t, run.Finished)
	assert.Empty(t, run.Error)
	assert.Equal(t, 45.0, run.State["quality_score"])
	// One straight pass: extract, complexity, issues, suggest, check_done.
	assert.Contains(t, run.Logs, "extract: extracted 2 function(s)")
	assert.Contains(t, run.Logs, "check_done: quality 45 >= threshold 40")
	assert.Equal(t, "check_done -> next: none", run.Logs[len(run.Logs)-1])
}

func TestPipeline_LoopsUntilBudgetWhenScoreStaysLow(t *testing.T) {
	reg := registry.New()
	tools := registry.NewTools()
	Register(reg, tools)

	eng := runtime.NewEngine(memory.New())
	graphID := eng.CreateGraph(Graph(reg, 12))

	ctx := context.Background()
	runID, err := eng.Run(ctx, graphID, map[string]any{
		"code":      sample,
		"threshold": 85,
	}, false)
	require.NoError(t, err)

	run, err := eng.GetRun(ctx, runID)
	require.NoError(t, err)

	assert.True(t, run.Finished)
	assert.Empty(t, run.Error, "the budget cutoff is not a failure")
	assert.Equal(t, "max steps reached; aborting", run.Logs[len(run.Logs)-1])
	assert.Contains(t, run.Logs, "check_done: quality 45 < threshold 85; looping")
	assert.Contains(t, run.Logs, "check_done -> next: check_complexity")
}

func TestBelowThresholdCondition(t *testing.T) {
	reg := registry.New()
	tools := registry.NewTools()
	Register(reg, tools)

	cond, ok := reg.Condition(CondBelowThreshold)
	require.True(t, ok)

	got, err := cond(context.Background(), map[string]any{"quality_score": 45.0, "threshold": 85})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = cond(context.Background(), map[string]any{"quality_score": 90.0, "threshold": 85})
	require.NoError(t, err)
	assert.False(t, got)
}
