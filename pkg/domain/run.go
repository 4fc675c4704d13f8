package domain

// Run records one execution of a graph. The execution loop driving the run is
// its only writer; everyone else reads snapshots published through a RunStore.
type Run struct {
	RunID   string `json:"run_id"`
	GraphID string `json:"graph_id"`

	// State is the shared, cumulative state threaded through every node
	// call. It starts as a copy of the caller-supplied initial state.
	State map[string]any `json:"state"`

	// Logs records, in strict step order, every node executed and every
	// transition decision.
	Logs []string `json:"logs"`

	// CurrentNode is the node executing right now, empty when idle or done.
	CurrentNode string `json:"current_node,omitempty"`

	// Finished becomes true when the run terminates, whether naturally, by
	// budget exhaustion or by a fatal error.
	Finished bool `json:"finished"`

	// Error describes a fatal failure. Budget exhaustion is not an error.
	Error string `json:"error,omitempty"`
}

// NewRun creates a run record with its own copy of the initial state.
func NewRun(runID, graphID string, initial map[string]any) *Run {
	state := make(map[string]any, len(initial))
	for k, v := range initial {
		state[k] = v
	}
	return &Run{
		RunID:   runID,
		GraphID: graphID,
		State:   state,
		Logs:    []string{},
	}
}

// Clone returns a snapshot safe to hand to concurrent readers. State and Logs
// are copied so a reader never observes a half-merged step.
func (r *Run) Clone() *Run {
	c := *r
	c.State = make(map[string]any, len(r.State))
	for k, v := range r.State {
		c.State[k] = v
	}
	c.Logs = append([]string(nil), r.Logs...)
	return &c
}
