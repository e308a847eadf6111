package domain

import "math"

// ReadinessLevel classifies how prepared a component is for migration
type ReadinessLevel string

const (
	ReadinessReady     ReadinessLevel = "ready"
	ReadinessNeedsWork ReadinessLevel = "needs-work"
	ReadinessComplex   ReadinessLevel = "complex"
	ReadinessHighRisk  ReadinessLevel = "high-risk"
)

// EffortTier is the ordinal migration effort estimate
type EffortTier string

const (
	EffortLow      EffortTier = "low"
	EffortMedium   EffortTier = "medium"
	EffortHigh     EffortTier = "high"
	EffortVeryHigh EffortTier = "very-high"
)

// RiskTier is the ordinal migration risk estimate
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskCritical RiskTier = "critical"
)

// ReadinessCriteria are the per-component weighted scoring inputs, each 0-100
type ReadinessCriteria struct {
	CodeQuality            int `json:"code_quality"`
	Documentation          int `json:"documentation"`
	TestCoverage           int `json:"test_coverage"`
	DependencyComplexity   int `json:"dependency_complexity"`
	PropClarity            int `json:"prop_clarity"`
	LogicSeparation        int `json:"logic_separation"`
	PatternCompliance      int `json:"pattern_compliance"`
	MigrationCompatibility int `json:"migration_compatibility"`
}

// Criteria weights. Must sum to 1.0.
const (
	WeightCodeQuality            = 0.20
	WeightDocumentation          = 0.10
	WeightTestCoverage           = 0.15
	WeightDependencyComplexity   = 0.20
	WeightPropClarity            = 0.10
	WeightLogicSeparation        = 0.10
	WeightPatternCompliance      = 0.10
	WeightMigrationCompatibility = 0.05
)

// WeightedScore computes the overall readiness score, rounded to the nearest
// integer
func (c ReadinessCriteria) WeightedScore() int {
	sum := float64(c.CodeQuality)*WeightCodeQuality +
		float64(c.Documentation)*WeightDocumentation +
		float64(c.TestCoverage)*WeightTestCoverage +
		float64(c.DependencyComplexity)*WeightDependencyComplexity +
		float64(c.PropClarity)*WeightPropClarity +
		float64(c.LogicSeparation)*WeightLogicSeparation +
		float64(c.PatternCompliance)*WeightPatternCompliance +
		float64(c.MigrationCompatibility)*WeightMigrationCompatibility
	return int(math.Round(sum))
}

// ClassifyReadiness maps a score to a level given the ready threshold.
// Pure function: score >= threshold -> ready; >= 60 -> needs-work;
// >= 40 -> complex; else high-risk.
func ClassifyReadiness(score, threshold int) ReadinessLevel {
	switch {
	case score >= threshold:
		return ReadinessReady
	case score >= 60:
		return ReadinessNeedsWork
	case score >= 40:
		return ReadinessComplex
	default:
		return ReadinessHighRisk
	}
}

// ComponentReadiness is the per-component migration assessment. It is
// computed once per run and never mutated afterward.
type ComponentReadiness struct {
	// ComponentID references the assessed component
	ComponentID string `json:"component_id"`

	// ComponentName is the component's display name
	ComponentName string `json:"component_name"`

	// Criteria are the individual scoring inputs
	Criteria ReadinessCriteria `json:"criteria"`

	// OverallScore is the rounded weighted sum of the criteria
	OverallScore int `json:"overall_score"`

	// Level is the threshold classification of OverallScore
	Level ReadinessLevel `json:"level"`

	// Blockers are conditions preventing migration
	Blockers []string `json:"blockers,omitempty"`

	// Prerequisites are suggested actions before migrating
	Prerequisites []string `json:"prerequisites,omitempty"`

	// Effort is the estimated work tier
	Effort EffortTier `json:"effort"`

	// Risk is the estimated risk tier
	Risk RiskTier `json:"risk"`
}

// InventorySection groups assessments sharing a readiness level
type InventorySection struct {
	Level      ReadinessLevel        `json:"level"`
	Title      string                `json:"title"`
	Components []*ComponentReadiness `json:"components"`
}

// RoadmapPhase is one bounded bucket of the migration roadmap
type RoadmapPhase struct {
	// Number is the 1-based phase index
	Number int `json:"number"`

	// Name is "Foundation", "Core", or "Advanced"
	Name string `json:"name"`

	// ComponentIDs are the members, in descending readiness order
	ComponentIDs []string `json:"component_ids"`

	// DependsOn is the previous phase number (0 for the first phase)
	DependsOn int `json:"depends_on,omitempty"`
}

// MigrationRoadmap is the phased plan over all assessed components
type MigrationRoadmap struct {
	Phases []RoadmapPhase `json:"phases"`
}

// InventorySummary provides aggregate statistics for a generated inventory
type InventorySummary struct {
	TotalComponents int            `json:"total_components"`
	AverageScore    float64        `json:"average_score"`
	Distribution    map[string]int `json:"distribution"`
	BlockedCount    int            `json:"blocked_count"`
}

// ComponentInventory is the complete readiness report for a codebase
type ComponentInventory struct {
	GeneratedAt string                `json:"generated_at"`
	Version     string                `json:"version"`
	Root        string                `json:"root"`
	Summary     InventorySummary      `json:"summary"`
	Sections    []InventorySection    `json:"sections"`
	Roadmap     MigrationRoadmap      `json:"roadmap"`
	Externals   []*ExternalDependency `json:"externals,omitempty"`
	Cycles      []DependencyCycle     `json:"cycles,omitempty"`
	Warnings    []string              `json:"warnings,omitempty"`
}
