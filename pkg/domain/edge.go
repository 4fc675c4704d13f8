package domain

import "context"

// Comparison operators accepted by CompareEdge. An empty or unknown operator
// falls back to equality.
const (
	OpGTE = ">="
	OpLTE = "<="
	OpGT  = ">"
	OpLT  = "<"
	OpEQ  = "=="
)

// Edge is the static routing rule attached to a node name. It is a closed
// set of four variants, resolved by the branch resolver with an exhaustive
// type switch:
//
//   - Goto: a literal next-node name.
//   - PredicateEdge: a callable predicate over the shared state.
//   - CompareEdge: a data-only comparison against a state field.
//   - FallbackEdge: a plain "next" pointer, possibly empty (terminal).
//
// A node with no edge at all is terminal once its result carries no override.
type Edge interface {
	edge()
}

// Goto routes unconditionally to the named node.
type Goto string

func (Goto) edge() {}

// ConditionFunc evaluates a branching predicate against the shared state.
type ConditionFunc func(ctx context.Context, state map[string]any) (bool, error)

// PredicateEdge routes on the outcome of a predicate. A predicate that
// returns an error counts as false; the run keeps progressing.
type PredicateEdge struct {
	If    ConditionFunc
	True  string
	False string
}

func (*PredicateEdge) edge() {}

// CompareEdge routes on a comparison between a state field and a literal
// value. A missing field evaluates to false, never to an error. The data-only
// shape exists so threshold-style decisions can live in serialized graph
// documents without any executable code.
type CompareEdge struct {
	Field string
	Op    string
	Value any
	True  string
	False string
}

func (*CompareEdge) edge() {}

// FallbackEdge routes to Next, or terminates the run when Next is empty.
type FallbackEdge struct {
	Next string
}

func (*FallbackEdge) edge() {}
