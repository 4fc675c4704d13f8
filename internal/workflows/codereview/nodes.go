/*
Package codereview is a toy code-analysis pipeline used as the demo workflow:
extract function snippets from a code blob, score their complexity and smells
with heuristic tools, derive a quality score, and loop the analysis until the
score clears a threshold or the run budget cuts the loop.

It exists to exercise the engine end to end (literal edges, tool calls, and
the next-node override driving a loop), not to review code for real.
*/
package codereview

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

// Node binding names, as referenced by serialized graph documents.
const (
	NodeExtract    = "codereview.extract_functions"
	NodeComplexity = "codereview.check_complexity"
	NodeIssues     = "codereview.detect_issues"
	NodeSuggest    = "codereview.suggest_improvements"
	NodeCheckDone  = "codereview.check_done"

	// CondBelowThreshold is a registered predicate usable in predicate
	// edges: true while the quality score is under the threshold.
	CondBelowThreshold = "codereview.below_threshold"
)

// Register installs the pipeline nodes, conditions and tools into the given
// registries.
func Register(reg *registry.Registry, tools *registry.Tools) {
	RegisterTools(tools)

	reg.RegisterNode(NodeExtract, domain.NodeFunc(extractFunctions))
	reg.RegisterNode(NodeComplexity, checkComplexity(tools))
	reg.RegisterNode(NodeIssues, detectIssues(tools))
	reg.RegisterNode(NodeSuggest, domain.NodeFunc(suggestImprovements))
	reg.RegisterNode(NodeCheckDone, domain.NodeFunc(checkDone))

	reg.RegisterCondition(CondBelowThreshold, func(ctx context.Context, state map[string]any) (bool, error) {
		return asFloat(state["quality_score"]) < threshold(state), nil
	})
}

// Graph builds the demo pipeline programmatically: a straight chain of
// literal edges, with check_done using the result override to either finish
// or loop back to the complexity pass.
func Graph(reg *registry.Registry, maxSteps int) *domain.Graph {
	node := func(name string) domain.Node {
		n, _ := reg.Node(name)
		return n
	}
	return &domain.Graph{
		Start:    "extract",
		MaxSteps: maxSteps,
		Nodes: map[string]domain.Node{
			"extract":          node(NodeExtract),
			"check_complexity": node(NodeComplexity),
			"detect_issues":    node(NodeIssues),
			"suggest":          node(NodeSuggest),
			"check_done":       node(NodeCheckDone),
		},
		Edges: map[string]domain.Edge{
			"extract":          domain.Goto("check_complexity"),
			"check_complexity": domain.Goto("detect_issues"),
			"detect_issues":    domain.Goto("suggest"),
			"suggest":          domain.Goto("check_done"),
			// check_done routes itself via the override.
		},
	}
}

// extractFunctions splits state["code"] into naive per-function snippets. A
// function starts at a line beginning with "def " or "func ".
func extractFunctions(ctx context.Context, state map[string]any) (*domain.Result, error) {
	code, _ := state["code"].(string)

	var funcs []map[string]any
	var name string
	var body []string

	flush := func() {
		if name != "" {
			funcs = append(funcs, map[string]any{
				"name": name,
				"code": strings.Join(body, "\n"),
			})
		}
	}

	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "func ") {
			flush()
			header := strings.TrimPrefix(strings.TrimPrefix(trimmed, "def "), "func ")
			name = strings.TrimSpace(strings.SplitN(header, "(", 2)[0])
			body = []string{line}
			continue
		}
		if name != "" {
			body = append(body, line)
		}
	}
	flush()

	return &domain.Result{
		Update: map[string]any{"functions": funcs},
		Log:    fmt.Sprintf("extracted %d function(s)", len(funcs)),
	}, nil
}

func checkComplexity(tools *registry.Tools) domain.NodeFunc {
	return func(ctx context.Context, state map[string]any) (*domain.Result, error) {
		report := []map[string]any{}
		for _, f := range functionsOf(state) {
			res, err := tools.Execute(ctx, "compute_complexity", map[string]any{"code": f["code"]})
			if err != nil {
				return nil, err
			}
			report = append(report, map[string]any{
				"name":       f["name"],
				"complexity": res.(map[string]any)["complexity"],
			})
		}
		return &domain.Result{
			Update: map[string]any{"complexity_report": report},
			Log:    "computed complexity",
		}, nil
	}
}

func detectIssues(tools *registry.Tools) domain.NodeFunc {
	return func(ctx context.Context, state map[string]any) (*domain.Result, error) {
		total := 0
		detail := []map[string]any{}
		for _, f := range functionsOf(state) {
			res, err := tools.Execute(ctx, "detect_smells", map[string]any{"code": f["code"]})
			if err != nil {
				return nil, err
			}
			issues := res.(map[string]any)["issues"].(int)
			detail = append(detail, map[string]any{"name": f["name"], "issues": issues})
			total += issues
		}
		return &domain.Result{
			Update: map[string]any{"issues": map[string]any{"total": total, "detail": detail}},
			Log:    fmt.Sprintf("detected %d issues", total),
		}, nil
	}
}

// suggestImprovements derives a quality score:
// 100 - total_complexity*5 - issues*10, clamped at zero.
func suggestImprovements(ctx context.Context, state map[string]any) (*domain.Result, error) {
	totalComplexity := 0.0
	if report, ok := state["complexity_report"].([]map[string]any); ok {
		for _, item := range report {
			totalComplexity += asFloat(item["complexity"])
		}
	}

	issues := 0.0
	if m, ok := state["issues"].(map[string]any); ok {
		issues = asFloat(m["total"])
	}

	score := 100 - totalComplexity*5 - issues*10
	if score < 0 {
		score = 0
	}

	var suggestions []string
	if issues > 0 {
		suggestions = append(suggestions, "Fix TODOs and prints")
	}
	if totalComplexity > 10 {
		suggestions = append(suggestions, "Refactor complex functions into smaller pieces")
	}

	return &domain.Result{
		Update: map[string]any{"quality_score": score, "suggestions": suggestions},
		Log:    fmt.Sprintf("suggested improvements; score=%v", score),
	}, nil
}

// checkDone decides whether the pipeline loops. It is the override example:
// below the threshold it forces control back to check_complexity regardless
// of the edge table; at or above it the run terminates.
func checkDone(ctx context.Context, state map[string]any) (*domain.Result, error) {
	th := threshold(state)
	quality := asFloat(state["quality_score"])

	if quality >= th {
		return &domain.Result{
			Log: fmt.Sprintf("quality %v >= threshold %v", quality, th),
		}, nil
	}
	return &domain.Result{
		Log:  fmt.Sprintf("quality %v < threshold %v; looping", quality, th),
		Next: "check_complexity",
	}, nil
}

func functionsOf(state map[string]any) []map[string]any {
	funcs, _ := state["functions"].([]map[string]any)
	return funcs
}

func threshold(state map[string]any) float64 {
	if _, ok := state["threshold"]; !ok {
		return 80
	}
	return asFloat(state["threshold"])
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
