package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uplift-tools/uplift/app"
	"github.com/uplift-tools/uplift/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "uplift",
		Short: "uplift - UI component migration toolkit",
		Long: `uplift analyzes a UI component codebase, scores each component's migration
readiness, and generates migrated component scaffolding with extracted hooks.`,
		Version: version.Version,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(depsCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		var exitErr *app.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("uplift version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
