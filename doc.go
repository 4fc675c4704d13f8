/*
Package arbor is a minimal graph-based task orchestrator. It executes a
directed, possibly cyclic, graph of named nodes against a shared mutable
state, following static edges or node-computed overrides, until a terminal
node or a step budget is reached.

Application logic lives in small, independently testable node functions; the
engine owns sequencing, branching, looping and execution bookkeeping.

# Concept

A graph binds node names to implementations and attaches a routing rule
(edge) to each name. A run threads one state map through the nodes: each node
proposes a partial update, the engine merges it and asks the branch resolver
where to go next. A node's result may override the static edge table, which
is how loops and early termination are expressed without rewiring edges.

Runs execute foreground (the caller blocks until the record is populated) or
background (the caller gets a run ID immediately and polls the record later).
A step budget, 1000 by default, caps runaway loops.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/arbor"
		"github.com/aretw0/arbor/pkg/domain"
	)

	func main() {
		eng := arbor.New()

		graphID := eng.CreateGraph(&domain.Graph{
			Start: "hello",
			Nodes: map[string]domain.Node{
				"hello": domain.UpdateFunc(func(ctx context.Context, state map[string]any) (map[string]any, error) {
					return map[string]any{"greeting": "hello, arbor"}, nil
				}),
			},
		})

		ctx := context.Background()
		runID, err := eng.RunGraph(ctx, graphID, nil, false)
		if err != nil {
			panic(err)
		}

		run, _ := eng.GetRun(ctx, runID)
		fmt.Println(run.State["greeting"], run.Finished)
	}
*/
package arbor
