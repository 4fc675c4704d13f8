package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Registry binds names to executable graph building blocks: nodes and
// branching conditions. Serialized graph documents (HTTP payloads, YAML
// files) reference entries by name, so registration is the only place where a
// name meets a callable.
type Registry struct {
	mu         sync.RWMutex
	nodes      map[string]domain.Node
	conditions map[string]domain.ConditionFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		nodes:      make(map[string]domain.Node),
		conditions: make(map[string]domain.ConditionFunc),
	}
}

// RegisterNode adds a node under the given name, overwriting any previous
// binding.
func (r *Registry) RegisterNode(name string, node domain.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[name] = node
}

// Node looks up a node by name.
func (r *Registry) Node(name string) (domain.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	node, ok := r.nodes[name]
	return node, ok
}

// NodeNames returns the registered node names, sorted.
func (r *Registry) NodeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterCondition adds a branching predicate under the given name.
func (r *Registry) RegisterCondition(name string, fn domain.ConditionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions[name] = fn
}

// Condition looks up a predicate by name.
func (r *Registry) Condition(name string) (domain.ConditionFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.conditions[name]
	return fn, ok
}

// ToolFunction defines the signature for a tool implementation. It receives a
// context and a map of arguments, and returns a result or error.
type ToolFunction func(ctx context.Context, args map[string]any) (any, error)

// Tools manages the helper utilities nodes may call. Tools are pure
// computations with no shared state of their own.
type Tools struct {
	mu    sync.RWMutex
	tools map[string]ToolFunction
}

// NewTools creates a new empty tool registry.
func NewTools() *Tools {
	return &Tools{
		tools: make(map[string]ToolFunction),
	}
}

// Register adds a tool to the registry. If a tool with the same name exists,
// it is overwritten.
func (t *Tools) Register(name string, fn ToolFunction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tools[name] = fn
}

// Execute looks up a tool by name and executes it. Returns an error if the
// tool is not found.
func (t *Tools) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	t.mu.RLock()
	fn, ok := t.tools[name]
	t.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}

	return fn(ctx, args)
}

// Names returns the registered tool names, sorted.
func (t *Tools) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.tools))
	for name := range t.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
