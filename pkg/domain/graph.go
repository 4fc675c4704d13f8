package domain

// DefaultMaxSteps caps a run whose graph never reaches a terminal node.
const DefaultMaxSteps = 1000

// Graph is the static definition of a workflow. It is immutable after
// registration with the engine.
//
// The engine performs no structural validation: an edge may point at a name
// absent from Nodes, in which case the run that reaches it fails with a
// node-not-found error at that step, not at creation time.
type Graph struct {
	// Nodes binds node names to their implementations.
	Nodes map[string]Node

	// Edges is the static routing table, keyed by node name. A node absent
	// from the table is terminal.
	Edges map[string]Edge

	// Start names the first node to execute. It must be non-empty; the run
	// fails immediately otherwise.
	Start string

	// MaxSteps is the step budget for one run. Zero or negative means
	// DefaultMaxSteps.
	MaxSteps int
}

// Budget returns the effective step budget.
func (g *Graph) Budget() int {
	if g.MaxSteps <= 0 {
		return DefaultMaxSteps
	}
	return g.MaxSteps
}
