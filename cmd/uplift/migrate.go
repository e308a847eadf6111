package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uplift-tools/uplift/app"
)

var (
	migrateConfigPath string
	migrateOutputDir  string
	migrateDryRun     bool
	migrateSkipTests  bool
	migrateVerbose    bool
	migrateResume     bool
	migrateRollback   bool
	migrateCleanup    bool
	migrateRegenerate string
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <path> [component...]",
		Short: "Transform components and write migrated artifacts",
		Long: `Transform components into target-platform scaffolding: a function
component, extracted hooks, type declarations, and a provenance README.
Migration state is recorded in a manifest for resume and rollback.

Exit codes:
  0  migration succeeded
  1  validation failed (unknown component, non-equivalent output)
  2  generated output failed the structural compile check
  3  business logic was not fully carried over
  4  artifacts could not be written

Examples:
  uplift migrate src/ Button
  uplift migrate src/ Header Sidebar
  uplift migrate --dry-run src/ Button
  uplift migrate --regenerate Button src/
  uplift migrate --resume src/
  uplift migrate --rollback src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMigrate,
	}

	cmd.Flags().StringVarP(&migrateConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&migrateOutputDir, "output", "o", "", "Directory for migrated artifacts")
	cmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Report what would be written without writing")
	cmd.Flags().BoolVar(&migrateSkipTests, "skip-tests", false, "Do not generate test scaffolds")
	cmd.Flags().BoolVarP(&migrateVerbose, "verbose", "v", false, "Show per-component warnings")
	cmd.Flags().BoolVar(&migrateResume, "resume", false, "Skip components already in the manifest")
	cmd.Flags().BoolVar(&migrateRollback, "rollback", false, "Remove migrated artifacts and the manifest")
	cmd.Flags().BoolVar(&migrateCleanup, "cleanup", false, "Remove orphaned output directories after a successful run")
	cmd.Flags().StringVar(&migrateRegenerate, "regenerate", "", "Component to re-migrate even when the manifest has it")

	return cmd
}

// validateMigrateSelection requires an explicit unit selection for a normal
// run; resume, rollback, and regenerate operate from the manifest instead
func validateMigrateSelection(components []string, regenerate string, resume, rollback bool) error {
	if len(components) > 0 || regenerate != "" || resume || rollback {
		return nil
	}
	return errors.New("name at least one component, or pass --resume, --rollback, or --regenerate")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	root := args[0]
	components := args[1:]
	if err := validateMigrateSelection(components, migrateRegenerate, migrateResume, migrateRollback); err != nil {
		return err
	}

	mc := app.MigrateConfig{
		Root:       root,
		Components: components,
		ConfigPath: migrateConfigPath,
		OutputDir:  migrateOutputDir,
		DryRun:     migrateDryRun,
		SkipTests:  migrateSkipTests,
		Resume:     migrateResume,
		Regenerate: migrateRegenerate,
		Rollback:   migrateRollback,
		Cleanup:    migrateCleanup,
		Verbose:    migrateVerbose,
		Output:     os.Stdout,
	}

	uc := app.NewMigrateUseCase(!migrateDryRun)
	outcome, err := uc.Execute(cmd.Context(), mc)
	if err != nil {
		return err
	}

	if migrateRollback {
		fmt.Println("Rolled back migrated artifacts.")
		return nil
	}
	fmt.Printf("Done: %d migrated, %d skipped.\n", len(outcome.Migrated), len(outcome.Skipped))
	return nil
}
