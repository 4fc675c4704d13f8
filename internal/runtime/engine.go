package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/google/uuid"
)

// Engine owns the graph registry and drives run execution. Graph definitions
// are immutable after CreateGraph; run records are published through the
// configured RunStore, one whole step at a time, so pollers never observe a
// half-merged state.
type Engine struct {
	mu     sync.RWMutex
	graphs map[string]*domain.Graph

	store  ports.RunStore
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for internal events. The run record's
// own log sequence is unaffected.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an engine publishing run records to the given store.
func NewEngine(store ports.RunStore, opts ...EngineOption) *Engine {
	e := &Engine{
		graphs: make(map[string]*domain.Graph),
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateGraph registers a graph definition and returns its fresh identifier.
// No structural validation is performed: dangling edge targets surface as
// run-time failures of the runs that reach them.
func (e *Engine) CreateGraph(g *domain.Graph) string {
	graphID := uuid.NewString()
	e.mu.Lock()
	e.graphs[graphID] = g
	e.mu.Unlock()

	e.logger.Debug("graph registered", "graph_id", graphID, "nodes", len(g.Nodes))
	return graphID
}

// Graph returns a registered definition.
func (e *Engine) Graph(graphID string) (*domain.Graph, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.graphs[graphID]
	return g, ok
}

// Run starts one execution of a graph with a copy of the initial state.
//
// Foreground (background=false): blocks until the run record is fully
// populated. Background: returns the run ID immediately, execution proceeds
// on its own goroutine and any failure, including a panic, is recorded on
// the run record rather than propagated.
//
// The only synchronous failure is domain.ErrGraphNotFound (or a store
// failure while registering the record); everything after that is visible
// solely through the run record.
func (e *Engine) Run(ctx context.Context, graphID string, initial map[string]any, background bool) (string, error) {
	e.mu.RLock()
	g, ok := e.graphs[graphID]
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrGraphNotFound, graphID)
	}

	run := domain.NewRun(uuid.NewString(), graphID, initial)
	if err := e.store.Save(ctx, run); err != nil {
		return "", fmt.Errorf("failed to register run: %w", err)
	}

	if background {
		// The run must outlive the caller (e.g. an HTTP request context).
		bctx := context.WithoutCancel(ctx)
		go e.runGuarded(bctx, g, run)
	} else {
		e.runGuarded(ctx, g, run)
	}

	return run.RunID, nil
}

// GetRun returns the latest published snapshot of a run.
func (e *Engine) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	return e.store.Load(ctx, runID)
}

// ListRuns returns the known run IDs.
func (e *Engine) ListRuns(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// runGuarded executes a run and converts a panic into a recorded failure.
// Nothing escaping a run may take down the host or touch other runs.
func (e *Engine) runGuarded(ctx context.Context, g *domain.Graph, run *domain.Run) {
	defer func() {
		if r := recover(); r != nil {
			run.Error = fmt.Sprintf("panic: %v", r)
			run.Finished = true
			run.CurrentNode = ""
			e.publish(ctx, run)
			e.logger.Error("run panicked", "run_id", run.RunID, "err", r)
		}
	}()
	e.execute(ctx, g, run)
}

// execute drives the run from the start node to termination. The loop is
// strictly sequential: a later step must see the prior step's merged state.
func (e *Engine) execute(ctx context.Context, g *domain.Graph, run *domain.Run) {
	started := time.Now()
	budget := g.Budget()
	steps := 0
	status := domain.RunStatusOK

	e.emitRunStart(ctx, run)
	defer func() {
		run.Finished = true
		run.CurrentNode = ""
		e.publish(ctx, run)
		e.emitRunFinish(ctx, run, status, steps, time.Since(started))
	}()

	if g.Start == "" {
		run.Error = "graph has no start node"
		status = domain.RunStatusError
		return
	}

	current := g.Start
	for current != "" {
		if steps >= budget {
			// Budget exhaustion is a safety cutoff for runaway loops,
			// not a failure.
			run.Logs = append(run.Logs, "max steps reached; aborting")
			status = domain.RunStatusBudget
			return
		}
		steps++

		run.CurrentNode = current
		run.Logs = append(run.Logs, "running "+current)
		e.emitNodeEnter(ctx, run, current, steps)

		node, ok := g.Nodes[current]
		if !ok || node == nil {
			run.Error = "node not found: " + current
			status = domain.RunStatusError
			return
		}

		res, err := invoke(ctx, node, run.State)
		if err != nil {
			run.Error = fmt.Sprintf("node %s failed: %v", current, err)
			status = domain.RunStatusError
			return
		}
		if res.Log != "" {
			run.Logs = append(run.Logs, current+": "+res.Log)
		}
		for k, v := range res.Update {
			run.State[k] = v
		}

		next := e.resolveNext(ctx, current, res, g.Edges, run.State)
		label := next
		if label == "" {
			label = "none"
		}
		run.Logs = append(run.Logs, fmt.Sprintf("%s -> next: %s", current, label))
		e.emitNodeLeave(ctx, run, current, steps)

		e.publish(ctx, run)
		e.logger.Debug("step completed", "run_id", run.RunID, "node", current, "next", label, "step", steps)
		current = next
	}
}

// publish saves a snapshot of the run. A store failure must not abort the
// run, it only degrades observability.
func (e *Engine) publish(ctx context.Context, run *domain.Run) {
	if err := e.store.Save(ctx, run); err != nil {
		e.logger.Warn("failed to publish run snapshot", "run_id", run.RunID, "err", err)
	}
}

func (e *Engine) emitRunStart(ctx context.Context, run *domain.Run) {
	if e.hooks.OnRunStart == nil {
		return
	}
	e.hooks.OnRunStart(ctx, &domain.RunEvent{RunID: run.RunID, GraphID: run.GraphID})
}

func (e *Engine) emitRunFinish(ctx context.Context, run *domain.Run, status domain.RunStatus, steps int, elapsed time.Duration) {
	if e.hooks.OnRunFinish == nil {
		return
	}
	e.hooks.OnRunFinish(ctx, &domain.RunEvent{
		RunID:   run.RunID,
		GraphID: run.GraphID,
		Status:  status,
		Steps:   steps,
		Elapsed: elapsed,
	})
}

func (e *Engine) emitNodeEnter(ctx context.Context, run *domain.Run, node string, step int) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{RunID: run.RunID, NodeID: node, Step: step})
}

func (e *Engine) emitNodeLeave(ctx context.Context, run *domain.Run, node string, step int) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{RunID: run.RunID, NodeID: node, Step: step})
}
