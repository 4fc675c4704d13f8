package runtime

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/aretw0/arbor/pkg/domain"
)

// resolveNext computes the next node name for a step, or "" for terminal.
//
// Precedence, in this exact order: a non-empty override on the node's own
// result wins unconditionally; otherwise the edge table entry for the current
// node decides; a node without an entry is terminal.
func (e *Engine) resolveNext(ctx context.Context, current string, res *domain.Result, edges map[string]domain.Edge, state map[string]any) string {
	if res.Next != "" {
		return res.Next
	}

	edge, ok := edges[current]
	if !ok || edge == nil {
		return ""
	}

	switch t := edge.(type) {
	case domain.Goto:
		return string(t)

	case *domain.PredicateEdge:
		// A failing predicate counts as false. The run keeps progressing;
		// the failure is only surfaced through the engine logger.
		take := false
		if t.If != nil {
			v, err := t.If(ctx, state)
			if err != nil {
				e.logger.Warn("predicate evaluation failed, treating as false",
					"node", current, "err", err)
			} else {
				take = v
			}
		}
		if take {
			return t.True
		}
		return t.False

	case *domain.CompareEdge:
		if compareField(state, t.Field, t.Op, t.Value) {
			return t.True
		}
		return t.False

	case *domain.FallbackEdge:
		return t.Next

	default:
		return ""
	}
}

// compareField applies the comparison of a CompareEdge. A missing field
// evaluates to false, never to an error.
func compareField(state map[string]any, field, op string, want any) bool {
	got, ok := state[field]
	if !ok {
		return false
	}

	switch op {
	case domain.OpGTE, domain.OpLTE, domain.OpGT, domain.OpLT:
		a, aok := toFloat(got)
		b, bok := toFloat(want)
		if !aok || !bok {
			return false
		}
		switch op {
		case domain.OpGTE:
			return a >= b
		case domain.OpLTE:
			return a <= b
		case domain.OpGT:
			return a > b
		default:
			return a < b
		}
	default:
		// Equality is the default operator. Numbers compare by value so a
		// JSON-decoded float64 still matches an int literal.
		if a, aok := toFloat(got); aok {
			if b, bok := toFloat(want); bok {
				return a == b
			}
			return false
		}
		return reflect.DeepEqual(got, want)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
