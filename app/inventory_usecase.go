// Package app wires the pipeline components into the use cases the CLI
// invokes.
package app

import (
	"context"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/analyzer"
	"github.com/uplift-tools/uplift/internal/config"
	"github.com/uplift-tools/uplift/internal/pipeline"
	"github.com/uplift-tools/uplift/internal/version"
	"github.com/uplift-tools/uplift/service"
)

// InventoryUseCase runs the analysis pipeline and renders the inventory
type InventoryUseCase struct {
	loader    *service.ConfigurationLoaderImpl
	formatter *service.ReportFormatterImpl
	observers []domain.PipelineObserver
	progress  bool
}

// NewInventoryUseCase creates the use case. Observers receive pipeline
// events for the lifetime of the use case.
func NewInventoryUseCase(showProgress bool, observers ...domain.PipelineObserver) *InventoryUseCase {
	return &InventoryUseCase{
		loader:    service.NewConfigurationLoader(),
		formatter: service.NewReportFormatter(),
		observers: observers,
		progress:  showProgress,
	}
}

// Execute loads configuration, runs the pipeline, and writes the report
func (uc *InventoryUseCase) Execute(ctx context.Context, configPath string, req domain.InventoryRequest) (*domain.PipelineResult, error) {
	cfg, err := uc.loader.Load(configPath, req.Root)
	if err != nil {
		return nil, err
	}
	merged := uc.loader.MergeRequest(uc.loader.ToInventoryRequest(cfg, req.Root, req.Mode), req)

	orch := uc.buildOrchestrator(cfg, merged)
	return orch.GenerateInventory(ctx, merged)
}

func (uc *InventoryUseCase) buildOrchestrator(cfg *config.Config, req domain.InventoryRequest) *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(pipeline.Options{
		Analyzer: analyzer.Config{
			CohesionThreshold:      cfg.Dependencies.CohesionThreshold,
			TogetherThreshold:      cfg.Dependencies.TogetherThreshold,
			HighRiskSpecifierCount: analyzer.DefaultConfig().HighRiskSpecifierCount,
		},
		Threshold:        req.Threshold,
		MaxUnitsPerPhase: cfg.Readiness.MaxUnitsPerPhase,
		Concurrency:      req.Concurrency,
		Version:          version.Version,
		Progress:         service.NewProgressManager(uc.progress),
		Observers:        uc.observers,
		Output:           uc.formatter,
	})
}
