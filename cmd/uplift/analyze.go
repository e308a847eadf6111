package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uplift-tools/uplift/app"
	"github.com/uplift-tools/uplift/domain"
)

var (
	analyzeFormat     string
	analyzeJSON       bool
	analyzeConfigPath string
	analyzeOutputDir  string
	analyzeThreshold  int
	analyzeWorkers    int
	analyzeSkipErrors bool
	analyzeExclude    []string
	analyzeInclude    []string
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze components and generate a readiness inventory",
		Long: `Discover UI components under a directory, score their migration
readiness, and generate the component inventory with a phased roadmap.

Examples:
  uplift analyze src/
  uplift analyze --format markdown src/
  uplift analyze --json --output-dir reports src/
  uplift analyze --threshold 85 src/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text",
		"Output format: text, json, markdown")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&analyzeConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVarP(&analyzeOutputDir, "output-dir", "o", "",
		"Directory for the generated report files")
	cmd.Flags().IntVar(&analyzeThreshold, "threshold", 0,
		"Readiness score required for the ready classification")
	cmd.Flags().IntVar(&analyzeWorkers, "workers", 0,
		"Number of parallel workers (0 = config default)")
	cmd.Flags().BoolVar(&analyzeSkipErrors, "skip-errors", false,
		"Continue past per-component failures")
	cmd.Flags().StringSliceVar(&analyzeExclude, "exclude", nil,
		"Additional exclude patterns")
	cmd.Flags().StringSliceVar(&analyzeInclude, "include", nil,
		"Include patterns (overrides config)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	format := domain.OutputFormat(analyzeFormat)
	if analyzeJSON {
		format = domain.OutputFormatJSON
	}

	req := domain.InventoryRequest{
		Root:            root,
		Mode:            domain.ModeFull,
		IncludePatterns: analyzeInclude,
		ExcludePatterns: analyzeExclude,
		SkipErrors:      analyzeSkipErrors,
		OutputFormat:    format,
		OutputWriter:    os.Stdout,
		OutputDir:       analyzeOutputDir,
		Concurrency:     analyzeWorkers,
		Threshold:       analyzeThreshold,
	}

	uc := app.NewInventoryUseCase(format == domain.OutputFormatText)
	result, err := uc.Execute(cmd.Context(), analyzeConfigPath, req)
	if err != nil {
		return err
	}
	if result.FinalPhase == domain.PhaseFailed {
		return fmt.Errorf("analysis failed in phase %s", result.Progress.Phase)
	}
	return nil
}
