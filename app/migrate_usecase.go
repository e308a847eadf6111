package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/transform"
	"github.com/uplift-tools/uplift/internal/validate"
	"github.com/uplift-tools/uplift/service"
)

// Migration exit codes
const (
	ExitOK                 = 0
	ExitValidationFailed   = 1
	ExitCompileCheckFailed = 2
	ExitLogicIncomplete    = 3
	ExitFileSystem         = 4
)

// ExitError carries a process exit code alongside the error
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode extracts the exit code from an error chain, defaulting to 1
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitValidationFailed
}

// MigrateConfig holds the migrate use case configuration
type MigrateConfig struct {
	// Root is the directory holding the source components
	Root string

	// Components names the units to migrate; empty means every ready unit
	Components []string

	// ConfigPath is an explicit config file, empty for discovery
	ConfigPath string

	// OutputDir overrides the configured artifact directory
	OutputDir string

	// DryRun suppresses every write
	DryRun bool

	// SkipTests suppresses test scaffolds
	SkipTests bool

	// Resume skips units already recorded in the manifest
	Resume bool

	// Regenerate names one unit to re-migrate even when the manifest has it
	Regenerate string

	// Rollback removes all migrated artifacts and the manifest, then stops
	Rollback bool

	// Cleanup removes output directories the manifest does not reference
	// after a fully successful migration
	Cleanup bool

	// Verbose mirrors per-unit detail to the output writer
	Verbose bool

	// Output receives human-readable progress lines
	Output io.Writer
}

// MigrateOutcome summarizes one migration run
type MigrateOutcome struct {
	Migrated []string
	Skipped  []string
	Reports  map[string]*domain.EquivalencyReport
}

// MigrateUseCase transforms components and persists the generated artifacts
type MigrateUseCase struct {
	loader    *service.ConfigurationLoaderImpl
	inventory *InventoryUseCase
}

// NewMigrateUseCase creates the migrate use case
func NewMigrateUseCase(showProgress bool) *MigrateUseCase {
	return &MigrateUseCase{
		loader:    service.NewConfigurationLoader(),
		inventory: NewInventoryUseCase(showProgress),
	}
}

// Execute runs the migration. The returned error wraps an ExitError carrying
// the process exit code.
func (uc *MigrateUseCase) Execute(ctx context.Context, mc MigrateConfig) (*MigrateOutcome, error) {
	cfg, err := uc.loader.Load(mc.ConfigPath, mc.Root)
	if err != nil {
		return nil, &ExitError{Code: ExitValidationFailed, Err: err}
	}
	outputDir := cfg.Migration.OutputDir
	if mc.OutputDir != "" {
		outputDir = mc.OutputDir
	}
	store := service.NewManifestStore(outputDir)

	if mc.Rollback {
		if err := store.Delete(); err != nil {
			return nil, &ExitError{Code: ExitFileSystem, Err: err}
		}
		return &MigrateOutcome{}, nil
	}

	// Analysis runs quietly; the migrate output is the per-unit report
	req := domain.InventoryRequest{
		Root:         mc.Root,
		Mode:         domain.ModeFull,
		OutputFormat: domain.OutputFormatText,
		OutputWriter: io.Discard,
	}
	result, err := uc.inventory.Execute(ctx, mc.ConfigPath, req)
	if err != nil {
		return nil, &ExitError{Code: ExitValidationFailed, Err: err}
	}

	targets, err := uc.selectTargets(mc, result)
	if err != nil {
		return nil, err
	}

	manifest, err := store.Load()
	if err != nil {
		return nil, &ExitError{Code: ExitFileSystem, Err: err}
	}
	manifest.Target = cfg.Migration.Target
	manifest.Root = mc.Root

	outcome := &MigrateOutcome{Reports: make(map[string]*domain.EquivalencyReport)}
	transformer := transform.NewTransformer(cfg.Migration.Platform())
	validator := validate.NewValidator()
	writer := service.NewArtifactWriter(outputDir, mc.DryRun, mc.SkipTests || !cfg.Migration.GenerateTests)

	for _, def := range targets {
		if mc.Resume && def.Name != mc.Regenerate && def.ID != mc.Regenerate && manifest.Contains(def.ID) {
			outcome.Skipped = append(outcome.Skipped, def.ID)
			continue
		}
		if err := uc.migrateOne(def, result, transformer, validator, writer, manifest, outcome, mc); err != nil {
			return outcome, err
		}
	}

	if !mc.DryRun {
		if err := store.Save(manifest); err != nil {
			return outcome, &ExitError{Code: ExitFileSystem, Err: err}
		}
		if mc.Cleanup {
			if err := store.Cleanup(manifest); err != nil {
				return outcome, &ExitError{Code: ExitFileSystem, Err: err}
			}
		}
	}
	return outcome, nil
}

// selectTargets resolves the requested component names against the
// discovered set; empty selection means every unit without blockers
func (uc *MigrateUseCase) selectTargets(mc MigrateConfig, result *domain.PipelineResult) ([]*domain.ComponentDefinition, error) {
	if result.Discovery == nil {
		return nil, &ExitError{Code: ExitValidationFailed,
			Err: domain.NewValidationError("discovery produced no components", nil)}
	}
	components := result.Discovery.Components

	selection := mc.Components
	if mc.Regenerate != "" {
		named := false
		for _, name := range selection {
			if name == mc.Regenerate {
				named = true
				break
			}
		}
		if !named {
			selection = append(append([]string{}, selection...), mc.Regenerate)
		}
	}

	if len(selection) == 0 {
		var targets []*domain.ComponentDefinition
		blocked := blockedIDs(result.Inventory)
		for _, def := range components {
			if !blocked[def.ID] {
				targets = append(targets, def)
			}
		}
		return targets, nil
	}

	byName := make(map[string]*domain.ComponentDefinition)
	for _, def := range components {
		byName[def.Name] = def
		byName[def.ID] = def
	}
	var targets []*domain.ComponentDefinition
	for _, name := range selection {
		def, ok := byName[name]
		if !ok {
			return nil, &ExitError{Code: ExitValidationFailed,
				Err: domain.NewValidationError(fmt.Sprintf("component %q not found", name), nil).
					WithRemediation("run 'uplift analyze' to list discovered components")}
		}
		targets = append(targets, def)
	}
	return targets, nil
}

func blockedIDs(inv *domain.ComponentInventory) map[string]bool {
	blocked := make(map[string]bool)
	if inv == nil {
		return blocked
	}
	for _, section := range inv.Sections {
		for _, c := range section.Components {
			if len(c.Blockers) > 0 {
				blocked[c.ComponentID] = true
			}
		}
	}
	return blocked
}

func (uc *MigrateUseCase) migrateOne(def *domain.ComponentDefinition, result *domain.PipelineResult,
	transformer *transform.Transformer, validator *validate.Validator, writer *service.ArtifactWriter,
	manifest *service.Manifest, outcome *MigrateOutcome, mc MigrateConfig) error {

	var deps []*domain.DependencyDetail
	if result.Analysis != nil {
		deps = result.Analysis.DependenciesOf(def.ID)
	}
	var source []byte
	if result.Discovery != nil {
		source = result.Discovery.Sources[def.ID]
	}
	tr := transformer.Transform(def, source, result.ParseResult[def.ID], deps)
	if !tr.Success {
		return &ExitError{Code: ExitValidationFailed,
			Err: domain.NewTransformationError(
				fmt.Sprintf("transforming %s failed: %s", def.ID, strings.Join(tr.Warnings, "; ")), nil).
				WithComponent(def.ID)}
	}

	if err := compileCheck(tr); err != nil {
		return &ExitError{Code: ExitCompileCheckFailed, Err: err}
	}

	report := validator.Validate(def, tr)
	outcome.Reports[def.ID] = report
	if report.LogicPreservation < 100 {
		return &ExitError{Code: ExitLogicIncomplete,
			Err: domain.NewBusinessLogicError(
				fmt.Sprintf("%s: only %d%% of business logic carried over", def.ID, report.LogicPreservation), nil).
				WithComponent(def.ID)}
	}
	if !report.Equivalent {
		return &ExitError{Code: ExitValidationFailed,
			Err: domain.NewValidationError(
				fmt.Sprintf("%s: generated output is not equivalent", def.ID), nil).
				WithComponent(def.ID)}
	}

	dir, written, err := writer.WriteComponent(tr)
	if err != nil {
		return &ExitError{Code: ExitFileSystem, Err: err}
	}

	if !mc.DryRun {
		manifest.Add(service.ManifestEntry{
			ComponentID: def.ID,
			Name:        def.Name,
			OutputPath:  dir,
			Score:       report.OverallScore,
		})
	}
	outcome.Migrated = append(outcome.Migrated, def.ID)

	if mc.Output != nil {
		verb := "migrated"
		if mc.DryRun {
			verb = "would migrate"
		}
		fmt.Fprintf(mc.Output, "%s %s (score %d, %d files)\n", verb, def.ID, report.OverallScore, len(written))
		if mc.Verbose {
			for _, w := range tr.Warnings {
				fmt.Fprintf(mc.Output, "  warning: %s\n", w)
			}
		}
	}
	return nil
}

// compileCheck performs a cheap structural sanity pass over the generated
// source: the export must be present and braces balanced
func compileCheck(tr *domain.TransformationResult) error {
	if !strings.Contains(tr.Body, "export function "+tr.Component.Name) {
		return domain.NewGenerationError(
			fmt.Sprintf("%s: generated source does not export the component", tr.Component.ID), nil)
	}
	if strings.Count(tr.Body, "{") != strings.Count(tr.Body, "}") {
		return domain.NewGenerationError(
			fmt.Sprintf("%s: generated source has unbalanced braces", tr.Component.ID), nil)
	}
	return nil
}
