package codereview

import (
	"context"
	"strings"

	"github.com/aretw0/arbor/pkg/registry"
)

// RegisterTools installs the rule-based helper utilities the review nodes
// call. They are pure computations over strings; no shared state.
func RegisterTools(tools *registry.Tools) {
	tools.Register("detect_smells", detectSmells)
	tools.Register("compute_complexity", computeComplexity)
}

// detectSmells counts trivial code smells in a snippet.
func detectSmells(ctx context.Context, args map[string]any) (any, error) {
	code, _ := args["code"].(string)

	issues := 0
	if strings.Contains(code, "TODO") {
		issues++
	}
	if strings.Contains(code, "print(") {
		issues++
	}
	if len(strings.Split(code, "\n")) > 200 {
		issues += 2
	}
	return map[string]any{"issues": issues}, nil
}

// computeComplexity scores a function body by counting branch keywords.
func computeComplexity(ctx context.Context, args map[string]any) (any, error) {
	code, _ := args["code"].(string)

	score := 1
	for _, kw := range []string{"if ", "for ", "while ", "switch ", "case "} {
		score += strings.Count(code, kw)
	}
	return map[string]any{"complexity": score}, nil
}
