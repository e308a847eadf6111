package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/uplift-tools/uplift/domain"
)

// Strictness represents the readiness strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// StrictnessPreset holds threshold values for a strictness level
type StrictnessPreset struct {
	ReadyThreshold   int
	MaxUnitsPerPhase int
}

// GetStrictnessPresets returns presets for the strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			ReadyThreshold:   65,
			MaxUnitsPerPhase: 8,
		},
		StrictnessStandard: {
			ReadyThreshold:   DefaultReadyThreshold,
			MaxUnitsPerPhase: DefaultMaxUnitsPerPhase,
		},
		StrictnessStrict: {
			ReadyThreshold:   85,
			MaxUnitsPerPhase: 3,
		},
	}
}

// GenerateTemplate renders a documented starter configuration for the given
// target platform and strictness
func GenerateTemplate(target domain.TargetPlatform, strictness Strictness) (string, error) {
	preset, ok := GetStrictnessPresets()[strictness]
	if !ok {
		preset = GetStrictnessPresets()[StrictnessStandard]
	}

	cfg := DefaultConfig()
	cfg.Migration.Target = string(target)
	cfg.Readiness.ReadyThreshold = preset.ReadyThreshold
	cfg.Readiness.MaxUnitsPerPhase = preset.MaxUnitsPerPhase

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return "", domain.NewConfigurationError("failed to render config template", err)
	}

	var b strings.Builder
	b.WriteString("# uplift configuration\n")
	b.WriteString("# Documentation: https://github.com/uplift-tools/uplift\n")
	fmt.Fprintf(&b, "# Generated for target=%s strictness=%s\n\n", target, strictness)
	b.Write(body)
	return b.String(), nil
}
