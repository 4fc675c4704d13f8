package arbor

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/internal/adapters/memory"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
)

// Version is the library version, reported by the CLI.
const Version = "0.1.0"

// Engine is the high-level entry point for the Arbor library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime  *runtime.Engine
	registry *registry.Registry
	tools    *registry.Tools
	store    ports.RunStore
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithRunStore injects a custom run store, bypassing the default in-memory
// registry.
func WithRunStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Arbor Engine. Without options it keeps run records in
// process memory and stays silent.
func New(opts ...Option) *Engine {
	eng := &Engine{
		registry: registry.New(),
		tools:    registry.NewTools(),
	}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.store == nil {
		eng.store = memory.New()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.runtime = runtime.NewEngine(
		eng.store,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)

	return eng
}

// Registry returns the node/condition registry used to resolve serialized
// graph documents.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Tools returns the tool registry available to node implementations.
func (e *Engine) Tools() *registry.Tools {
	return e.tools
}

// CreateGraph registers a graph definition and returns its identifier.
func (e *Engine) CreateGraph(g *domain.Graph) string {
	return e.runtime.CreateGraph(g)
}

// RunGraph starts one execution of a registered graph. With background=false
// the call blocks until the run record is fully populated; with
// background=true it returns immediately and the record is polled via GetRun.
func (e *Engine) RunGraph(ctx context.Context, graphID string, initial map[string]any, background bool) (string, error) {
	return e.runtime.Run(ctx, graphID, initial, background)
}

// GetRun returns the latest consistent snapshot of a run record.
func (e *Engine) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	return e.runtime.GetRun(ctx, runID)
}

// ListRuns returns the known run IDs.
func (e *Engine) ListRuns(ctx context.Context) ([]string, error) {
	return e.runtime.ListRuns(ctx)
}
