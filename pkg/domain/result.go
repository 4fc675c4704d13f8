package domain

// Result is the value a node produces for one step.
type Result struct {
	// Update holds keys to merge into the shared run state (shallow
	// overwrite). Keys absent from the update leave existing values intact.
	Update map[string]any `json:"update,omitempty"`

	// Log is an optional human-readable line, appended to the run's logs
	// prefixed by the node name.
	Log string `json:"log,omitempty"`

	// Next optionally forces the next node to execute. When set it takes
	// absolute precedence over the graph's edge table, which lets a node
	// loop back to an earlier node or terminate early without rewiring
	// edges.
	Next string `json:"next,omitempty"`
}
