package domain

import (
	"context"
	"time"
)

// RunStatus classifies how a run ended.
type RunStatus string

const (
	RunStatusOK     RunStatus = "ok"
	RunStatusError  RunStatus = "error"
	RunStatusBudget RunStatus = "budget_exhausted"
)

// RunEvent describes the start or the end of a run.
type RunEvent struct {
	RunID   string        `json:"run_id"`
	GraphID string        `json:"graph_id"`
	Status  RunStatus     `json:"status,omitempty"`
	Steps   int           `json:"steps"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

// NodeEvent describes entry to or exit from a node within a run.
type NodeEvent struct {
	RunID  string `json:"run_id"`
	NodeID string `json:"node_id"`
	Step   int    `json:"step"`
}

// LifecycleHooks defines callbacks for engine observability. Any field may be
// nil. Hooks run synchronously on the run's own goroutine, so they must be
// fast and must not touch the run record.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnNodeEnter func(context.Context, *NodeEvent)
	OnNodeLeave func(context.Context, *NodeEvent)
	OnRunFinish func(context.Context, *RunEvent)
}
