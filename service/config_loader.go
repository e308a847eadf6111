package service

import (
	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/config"
)

// ConfigurationLoaderImpl loads tool configuration and converts it into
// pipeline requests
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// Load resolves configuration for the target path. An explicit path wins;
// otherwise the config file is discovered upward from the target.
func (c *ConfigurationLoaderImpl) Load(configPath, targetPath string) (*config.Config, error) {
	return config.LoadConfig(configPath, targetPath)
}

// LoadDefault loads the discovered or built-in default configuration
func (c *ConfigurationLoaderImpl) LoadDefault() *config.Config {
	cfg, err := config.LoadConfig("", "")
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// ToInventoryRequest converts loaded configuration into a pipeline request.
// The root and mode are set by the caller from command arguments.
func (c *ConfigurationLoaderImpl) ToInventoryRequest(cfg *config.Config, root string, mode domain.PipelineMode) domain.InventoryRequest {
	return domain.InventoryRequest{
		Root:            root,
		Mode:            mode,
		IncludePatterns: cfg.Discovery.IncludePatterns,
		ExcludePatterns: cfg.Discovery.ExcludePatterns,
		SkipErrors:      cfg.Pipeline.SkipErrors,
		OutputFormat:    domain.OutputFormat(cfg.Output.Format),
		OutputDir:       cfg.Output.Directory,
		Concurrency:     cfg.Pipeline.Concurrency,
		Threshold:       cfg.Readiness.ReadyThreshold,
	}
}

// MergeRequest overlays CLI flag values onto a config-derived request.
// Zero values in the override leave the base value in place.
func (c *ConfigurationLoaderImpl) MergeRequest(base, override domain.InventoryRequest) domain.InventoryRequest {
	merged := base

	if override.Root != "" {
		merged.Root = override.Root
	}
	if override.Mode != "" {
		merged.Mode = override.Mode
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = append(merged.ExcludePatterns, override.ExcludePatterns...)
	}
	if override.SkipErrors {
		merged.SkipErrors = true
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputDir != "" {
		merged.OutputDir = override.OutputDir
	}
	if override.Concurrency > 0 {
		merged.Concurrency = override.Concurrency
	}
	if override.Threshold > 0 {
		merged.Threshold = override.Threshold
	}
	return merged
}
