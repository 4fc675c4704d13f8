package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests verifying that a RunStore
// implementation adheres to the interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		run := domain.NewRun(runID, "graph-1", map[string]any{"foo": "bar", "count": 42})
		run.Logs = append(run.Logs, "running start")
		run.CurrentNode = "start"

		err := store.Save(ctx, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, runID, loaded.RunID)
		assert.Equal(t, "graph-1", loaded.GraphID)
		assert.Equal(t, "start", loaded.CurrentNode)
		assert.Equal(t, "bar", loaded.State["foo"])
		// JSON persistence may widen ints to float64; only presence is part
		// of the contract.
		assert.NotNil(t, loaded.State["count"])
		assert.Equal(t, []string{"running start"}, loaded.Logs)
	})

	t.Run("Load returns a snapshot", func(t *testing.T) {
		run := domain.NewRun(runID+"-snap", "graph-1", map[string]any{"x": 1})
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, run.RunID)
		require.NoError(t, err)
		loaded.State["x"] = "mutated"
		loaded.Logs = append(loaded.Logs, "mutated")

		again, err := store.Load(ctx, run.RunID)
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", again.State["x"])
		assert.Empty(t, again.Logs)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewRun(runID, "graph-1", nil)))

		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, domain.NewRun(id1, "graph-1", nil))
		_ = store.Save(ctx, domain.NewRun(id2, "graph-1", nil))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}
