package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke_ResultPassthrough(t *testing.T) {
	want := &domain.Result{Update: map[string]any{"x": 1}, Log: "did x", Next: "elsewhere"}
	node := domain.NodeFunc(func(ctx context.Context, state map[string]any) (*domain.Result, error) {
		return want, nil
	})

	got, err := invoke(context.Background(), node, map[string]any{})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestInvoke_UpdateFuncWrapsBareMapping(t *testing.T) {
	node := domain.UpdateFunc(func(ctx context.Context, state map[string]any) (map[string]any, error) {
		return map[string]any{"x": 1}, nil
	})

	got, err := invoke(context.Background(), node, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1}, got.Update)
	assert.Equal(t, "node returned state update", got.Log)
	assert.Empty(t, got.Next)
}

func TestInvoke_NilResultFallsBackToNoOp(t *testing.T) {
	node := domain.NodeFunc(func(ctx context.Context, state map[string]any) (*domain.Result, error) {
		return nil, nil
	})

	got, err := invoke(context.Background(), node, map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, got.Update)
	assert.Equal(t, "node returned no result; no change", got.Log)
}

func TestInvoke_ErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	node := domain.NodeFunc(func(ctx context.Context, state map[string]any) (*domain.Result, error) {
		return nil, boom
	})

	_, err := invoke(context.Background(), node, map[string]any{})
	assert.ErrorIs(t, err, boom)
}
