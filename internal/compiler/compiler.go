/*
Package compiler turns serializable graph documents into executable domain
graphs, resolving node and predicate names against a registry.

Resolution happens at compile time because an unknown registered name has no
runnable counterpart to fail on later. Dangling edge *targets*, by contrast,
are left alone: they are legal in a document and only fail the run that
reaches them.
*/
package compiler

import (
	"fmt"

	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Compile builds a domain.Graph from a graph document.
func Compile(doc *dto.GraphDoc, reg *registry.Registry) (*domain.Graph, error) {
	nodes := make(map[string]domain.Node, len(doc.Nodes))
	for name, binding := range doc.Nodes {
		node, ok := reg.Node(binding)
		if !ok {
			return nil, fmt.Errorf("node function %q not registered (binding for %q)", binding, name)
		}
		nodes[name] = node
	}

	edges, err := CompileEdges(doc.Edges, reg)
	if err != nil {
		return nil, err
	}

	return &domain.Graph{
		Nodes:    nodes,
		Edges:    edges,
		Start:    doc.StartNode,
		MaxSteps: doc.MaxSteps,
	}, nil
}

// CompileEdges decodes a raw edge table. Nil entries are dropped (terminal
// node), strings become literal routes, maps become branching descriptors.
func CompileEdges(raw map[string]any, reg *registry.Registry) (map[string]domain.Edge, error) {
	edges := make(map[string]domain.Edge, len(raw))
	for from, entry := range raw {
		if entry == nil {
			continue
		}
		edge, err := DecodeEdge(entry, reg)
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", from, err)
		}
		edges[from] = edge
	}
	return edges, nil
}

// DecodeEdge decodes a single edge entry into one of the four edge variants.
func DecodeEdge(entry any, reg *registry.Registry) (domain.Edge, error) {
	if name, ok := entry.(string); ok {
		return domain.Goto(name), nil
	}

	var doc dto.EdgeDoc
	if err := mapstructure.Decode(entry, &doc); err != nil {
		return nil, fmt.Errorf("invalid edge descriptor: %w", err)
	}

	switch {
	case doc.Predicate != "":
		cond, ok := reg.Condition(doc.Predicate)
		if !ok {
			return nil, fmt.Errorf("condition %q not registered", doc.Predicate)
		}
		return &domain.PredicateEdge{If: cond, True: doc.True, False: doc.False}, nil

	case doc.Field != "":
		return &domain.CompareEdge{
			Field: doc.Field,
			Op:    doc.Op,
			Value: doc.Value,
			True:  doc.True,
			False: doc.False,
		}, nil

	default:
		return &domain.FallbackEdge{Next: doc.Next}, nil
	}
}
