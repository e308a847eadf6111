// Package config loads, validates, and persists the tool configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/uplift-tools/uplift/domain"
)

// Default readiness scoring settings
const (
	// DefaultReadyThreshold is the score at which a component is ready
	DefaultReadyThreshold = 75

	// DefaultMaxUnitsPerPhase bounds roadmap phase size
	DefaultMaxUnitsPerPhase = 5

	// DefaultConcurrency bounds parallel per-unit work
	DefaultConcurrency = 4
)

// Default cluster detection settings
const (
	DefaultCohesionThreshold = 0.30
	DefaultTogetherThreshold = 0.60
)

// Config is the main configuration structure
type Config struct {
	// Discovery holds source enumeration configuration
	Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery" yaml:"discovery"`

	// Readiness holds scoring configuration
	Readiness ReadinessConfig `json:"readiness" mapstructure:"readiness" yaml:"readiness"`

	// Dependencies holds dependency analysis configuration
	Dependencies DependencyConfig `json:"dependencies" mapstructure:"dependencies" yaml:"dependencies"`

	// Migration holds transformation configuration
	Migration MigrationConfig `json:"migration" mapstructure:"migration" yaml:"migration"`

	// Output holds report configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Pipeline holds execution configuration
	Pipeline PipelineConfig `json:"pipeline" mapstructure:"pipeline" yaml:"pipeline"`
}

// DiscoveryConfig holds source enumeration settings
type DiscoveryConfig struct {
	// IncludePatterns are glob patterns for files to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns are glob patterns for files to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// UseGitIgnore applies the root's .gitignore as an exclusion source
	UseGitIgnore bool `json:"use_gitignore" mapstructure:"use_gitignore" yaml:"use_gitignore"`
}

// ReadinessConfig holds scoring settings
type ReadinessConfig struct {
	// ReadyThreshold is the minimum score classified as ready
	ReadyThreshold int `json:"ready_threshold" mapstructure:"ready_threshold" yaml:"ready_threshold"`

	// MaxUnitsPerPhase bounds roadmap phase size
	MaxUnitsPerPhase int `json:"max_units_per_phase" mapstructure:"max_units_per_phase" yaml:"max_units_per_phase"`
}

// DependencyConfig holds dependency analysis settings
type DependencyConfig struct {
	// CohesionThreshold is the cohesion below which members migrate one
	// at a time
	CohesionThreshold float64 `json:"cohesion_threshold" mapstructure:"cohesion_threshold" yaml:"cohesion_threshold"`

	// TogetherThreshold is the cohesion at which a cluster migrates jointly
	TogetherThreshold float64 `json:"together_threshold" mapstructure:"together_threshold" yaml:"together_threshold"`
}

// MigrationConfig holds transformation settings
type MigrationConfig struct {
	// Target is the platform components are migrated onto: web, native
	Target string `json:"target" mapstructure:"target" yaml:"target"`

	// OutputDir is where generated artifacts are written
	OutputDir string `json:"output_dir" mapstructure:"output_dir" yaml:"output_dir"`

	// GenerateTests emits a test scaffold alongside each migrated component
	GenerateTests bool `json:"generate_tests" mapstructure:"generate_tests" yaml:"generate_tests"`
}

// OutputConfig holds report settings
type OutputConfig struct {
	// Format is the report format: text, json, markdown
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Directory is where reports are written (empty = stdout only)
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`
}

// PipelineConfig holds execution settings
type PipelineConfig struct {
	// Concurrency bounds parallel per-unit work
	Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency"`

	// SkipErrors continues past per-unit failures instead of aborting
	SkipErrors bool `json:"skip_errors" mapstructure:"skip_errors" yaml:"skip_errors"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			IncludePatterns: []string{},
			ExcludePatterns: []string{
				"node_modules",
				"dist",
				"build",
				"coverage",
				".next",
				".git",
				"*.min.js",
				"*.stories.*",
			},
			UseGitIgnore: true,
		},
		Readiness: ReadinessConfig{
			ReadyThreshold:   DefaultReadyThreshold,
			MaxUnitsPerPhase: DefaultMaxUnitsPerPhase,
		},
		Dependencies: DependencyConfig{
			CohesionThreshold: DefaultCohesionThreshold,
			TogetherThreshold: DefaultTogetherThreshold,
		},
		Migration: MigrationConfig{
			Target:        string(domain.TargetWeb),
			OutputDir:     "migrated",
			GenerateTests: true,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Pipeline: PipelineConfig{
			Concurrency: DefaultConcurrency,
			SkipErrors:  false,
		},
	}
}

// LoadConfig loads configuration from an explicit path, or discovers one
// relative to the target directory when the path is empty
func LoadConfig(configPath, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// A fresh viper instance per load avoids shared-state races
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("failed to read config file %s", configPath), err)
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigurationError("failed to unmarshal config", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

var configCandidates = []string{
	"uplift.yaml",
	"uplift.yml",
	".uplift.yaml",
	".uplift.yml",
}

// findDefaultConfig searches from the target directory up to the filesystem
// root, then the current directory, then the user config directory
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		if absPath, err := filepath.Abs(targetPath); err == nil {
			if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir); config != "" {
					return config
				}
				if filepath.Dir(dir) == dir {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory("."); config != "" {
		return config
	}
	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", "uplift")); config != "" {
			return config
		}
	}
	return ""
}

func searchConfigInDirectory(dir string) string {
	for _, candidate := range configCandidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.Readiness.ReadyThreshold < 1 || c.Readiness.ReadyThreshold > 100 {
		return domain.NewConfigurationError(
			fmt.Sprintf("readiness.ready_threshold must be 1-100, got %d", c.Readiness.ReadyThreshold), nil)
	}
	if c.Readiness.MaxUnitsPerPhase < 1 {
		return domain.NewConfigurationError(
			fmt.Sprintf("readiness.max_units_per_phase must be >= 1, got %d", c.Readiness.MaxUnitsPerPhase), nil)
	}
	if c.Dependencies.CohesionThreshold < 0 || c.Dependencies.CohesionThreshold > 1 {
		return domain.NewConfigurationError(
			fmt.Sprintf("dependencies.cohesion_threshold must be 0-1, got %g", c.Dependencies.CohesionThreshold), nil)
	}
	if c.Dependencies.TogetherThreshold < c.Dependencies.CohesionThreshold {
		return domain.NewConfigurationError(
			fmt.Sprintf("dependencies.together_threshold (%g) must be >= cohesion_threshold (%g)",
				c.Dependencies.TogetherThreshold, c.Dependencies.CohesionThreshold), nil)
	}

	switch c.Migration.Target {
	case string(domain.TargetWeb), string(domain.TargetNative):
	default:
		return domain.NewConfigurationError(
			fmt.Sprintf("invalid migration.target %q, must be web or native", c.Migration.Target), nil)
	}

	switch c.Output.Format {
	case "text", "json", "markdown":
	default:
		return domain.NewConfigurationError(
			fmt.Sprintf("invalid output.format %q, must be one of: text, json, markdown", c.Output.Format), nil)
	}

	if c.Pipeline.Concurrency < 1 {
		return domain.NewConfigurationError(
			fmt.Sprintf("pipeline.concurrency must be >= 1, got %d", c.Pipeline.Concurrency), nil)
	}
	return nil
}

// Target returns the configured migration target platform
func (c *MigrationConfig) Platform() domain.TargetPlatform {
	if c.Target == string(domain.TargetNative) {
		return domain.TargetNative
	}
	return domain.TargetWeb
}

// SaveConfig writes configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("discovery", config.Discovery)
	v.Set("readiness", config.Readiness)
	v.Set("dependencies", config.Dependencies)
	v.Set("migration", config.Migration)
	v.Set("output", config.Output)
	v.Set("pipeline", config.Pipeline)

	return v.WriteConfig()
}
