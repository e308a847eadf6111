package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/uplift-tools/uplift/app"
	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/service"
)

var (
	depsJSON       bool
	depsConfigPath string
	depsShowGraph  bool
	depsCyclesOnly bool
)

func depsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps [path]",
		Short: "Analyze component dependencies",
		Long: `Run discovery and dependency analysis only, reporting the component
graph, circular dependencies, extraction clusters, and external packages.

Examples:
  uplift deps src/
  uplift deps --cycles src/
  uplift deps --graph --json src/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDeps,
	}

	cmd.Flags().BoolVar(&depsJSON, "json", false, "Output results as JSON")
	cmd.Flags().StringVarP(&depsConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVar(&depsShowGraph, "graph", false, "Include every graph edge in the output")
	cmd.Flags().BoolVar(&depsCyclesOnly, "cycles", false, "Report circular dependencies only")

	return cmd
}

func runDeps(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	req := domain.InventoryRequest{
		Root:         root,
		Mode:         domain.ModeAnalysisOnly,
		OutputFormat: domain.OutputFormatText,
		OutputWriter: io.Discard,
	}

	uc := app.NewInventoryUseCase(!depsJSON)
	result, err := uc.Execute(cmd.Context(), depsConfigPath, req)
	if err != nil {
		return err
	}
	if result.Analysis == nil {
		return fmt.Errorf("dependency analysis produced no output")
	}

	if depsJSON {
		return service.WriteJSON(os.Stdout, result.Analysis)
	}
	printDeps(os.Stdout, result.Analysis)
	return nil
}

func printDeps(w io.Writer, analysis *domain.DependencyAnalysisResult) {
	graph := analysis.Graph

	if len(graph.Cycles) > 0 {
		fmt.Fprintf(w, "Circular dependencies (%d):\n", len(graph.Cycles))
		for _, cycle := range graph.Cycles {
			fmt.Fprintf(w, "  %s\n", cycle.Description)
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "No circular dependencies found.")
		fmt.Fprintln(w)
	}
	if depsCyclesOnly {
		return
	}

	fmt.Fprintf(w, "Dependencies: %d total, %d internal, %d external packages, average fan-out %.2f\n\n",
		analysis.Metrics.TotalDependencies, analysis.Metrics.InternalDependencies,
		analysis.Metrics.ExternalPackages, analysis.Metrics.AverageFanOut)

	if len(analysis.Externals) > 0 {
		fmt.Fprintln(w, "External packages:")
		for _, ext := range analysis.Externals {
			fmt.Fprintf(w, "  %-30s %-10s usages=%-4d %s\n", ext.Name, ext.Class, ext.UsageCount, ext.Disposition)
		}
		fmt.Fprintln(w)
	}

	if len(graph.Clusters) > 0 {
		fmt.Fprintln(w, "Extraction clusters:")
		for _, cluster := range graph.Clusters {
			fmt.Fprintf(w, "  cohesion=%.2f strategy=%s members=%d\n",
				cluster.Cohesion, cluster.Strategy, len(cluster.Components))
			for _, id := range cluster.Components {
				fmt.Fprintf(w, "    %s\n", id)
			}
		}
		fmt.Fprintln(w)
	}

	if depsShowGraph {
		fmt.Fprintln(w, "Edges:")
		edges := append([]*domain.GraphEdge{}, graph.Edges...)
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].From != edges[j].From {
				return edges[i].From < edges[j].From
			}
			return edges[i].To < edges[j].To
		})
		for _, e := range edges {
			fmt.Fprintf(w, "  %s -> %s (%s)\n", e.From, e.To, e.Relationship)
		}
	}

	if len(analysis.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations:")
		for _, rec := range analysis.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
}
