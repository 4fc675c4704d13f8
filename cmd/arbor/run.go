package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/workflows/codereview"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var runCmd = &cobra.Command{
	Use:   "run <graph.yaml>",
	Short: "Execute a graph document in the foreground",
	Long: `Loads a YAML graph document, resolves its node bindings against the
built-in registry, runs it to completion and prints the final run record as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		stateJSON, _ := cmd.Flags().GetString("state")

		logger := logging.New(logging.ParseLevel(level))

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read graph document: %w", err)
		}

		var doc dto.GraphDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse graph document: %w", err)
		}

		initial := map[string]any{}
		if stateJSON != "" {
			if err := json.Unmarshal([]byte(stateJSON), &initial); err != nil {
				return fmt.Errorf("failed to parse --state: %w", err)
			}
		}

		engine := arbor.New(arbor.WithLogger(logger))
		codereview.Register(engine.Registry(), engine.Tools())

		graph, err := compiler.Compile(&doc, engine.Registry())
		if err != nil {
			return fmt.Errorf("failed to compile graph: %w", err)
		}

		ctx := context.Background()
		graphID := engine.CreateGraph(graph)
		runID, err := engine.RunGraph(ctx, graphID, initial, false)
		if err != nil {
			return fmt.Errorf("run failed to start: %w", err)
		}

		run, err := engine.GetRun(ctx, runID)
		if err != nil {
			return fmt.Errorf("failed to load run record: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("state", "", "Initial state as a JSON object")
}
