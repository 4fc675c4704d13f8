package dto

// GraphDoc is the serializable form of a graph definition, as accepted by the
// HTTP adapter (JSON) and the CLI (YAML). Node values are registered node
// names, edge values are either a literal node name or a branching descriptor
// map (see compiler.DecodeEdge for the accepted shapes).
type GraphDoc struct {
	Nodes     map[string]string `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
	Edges     map[string]any    `json:"edges" yaml:"edges" mapstructure:"edges"`
	StartNode string            `json:"start_node" yaml:"start_node" mapstructure:"start_node"`
	MaxSteps  int               `json:"max_steps,omitempty" yaml:"max_steps,omitempty" mapstructure:"max_steps"`
}

// EdgeDoc is the descriptor form of a non-literal edge. Exactly one of
// Predicate or Field marks the branching kind; a descriptor with neither is
// the fallback form and routes to Next.
type EdgeDoc struct {
	Predicate string `json:"predicate,omitempty" yaml:"predicate,omitempty" mapstructure:"predicate"`

	Field string `json:"field,omitempty" yaml:"field,omitempty" mapstructure:"field"`
	Op    string `json:"op,omitempty" yaml:"op,omitempty" mapstructure:"op"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`

	True  string `json:"true,omitempty" yaml:"true,omitempty" mapstructure:"true"`
	False string `json:"false,omitempty" yaml:"false,omitempty" mapstructure:"false"`

	Next string `json:"next,omitempty" yaml:"next,omitempty" mapstructure:"next"`
}
