package domain

// MigrationEffort classifies the work a transformation required
type MigrationEffort string

const (
	MigrationEffortLow      MigrationEffort = "low"
	MigrationEffortMedium   MigrationEffort = "medium"
	MigrationEffortHigh     MigrationEffort = "high"
	MigrationEffortCritical MigrationEffort = "critical"
)

// TargetPlatform is the architecture components are transformed onto
type TargetPlatform string

const (
	TargetWeb    TargetPlatform = "web"
	TargetNative TargetPlatform = "native"
)

// ExtractedHook is one business-logic block lifted into a standalone hook
type ExtractedHook struct {
	// Name is the generated hook name (useXxx)
	Name string `json:"name"`

	// Body is the generated hook source
	Body string `json:"body"`

	// Origin is the business-logic block the hook was lifted from
	Origin string `json:"origin"`

	// ComplexityReduction is the structural complexity removed from the
	// component body by the extraction
	ComplexityReduction int `json:"complexity_reduction"`
}

// TransformationMetrics captures before/after size and complexity counts
type TransformationMetrics struct {
	LinesBefore      int `json:"lines_before"`
	LinesAfter       int `json:"lines_after"`
	ComplexityBefore int `json:"complexity_before"`
	ComplexityAfter  int `json:"complexity_after"`
}

// TransformationResult is the output of transforming one component
type TransformationResult struct {
	// Component is the source definition (referenced, not copied)
	Component *ComponentDefinition `json:"component"`

	// Success is false when transformation raised an error
	Success bool `json:"success"`

	// Body is the generated component source
	Body string `json:"body,omitempty"`

	// Hooks are the extracted business-logic hooks
	Hooks []ExtractedHook `json:"hooks,omitempty"`

	// TypeDeclarations is the generated prop/type declaration block
	TypeDeclarations string `json:"type_declarations,omitempty"`

	// Imports and Exports are the generated module surface
	Imports []string `json:"imports,omitempty"`
	Exports []string `json:"exports,omitempty"`

	// CompatibilityScore rates target fit, 0-100
	CompatibilityScore int `json:"compatibility_score"`

	// Warnings are non-fatal findings, including the failure cause when
	// Success is false
	Warnings []string `json:"warnings,omitempty"`

	// Effort classifies the migration work
	Effort MigrationEffort `json:"effort"`

	// Metrics are before/after counts (zero-valued on failure)
	Metrics TransformationMetrics `json:"metrics"`
}

// DifferenceSeverity rates a source/target divergence
type DifferenceSeverity string

const (
	DifferenceInfo    DifferenceSeverity = "info"
	DifferenceWarning DifferenceSeverity = "warning"
	DifferenceError   DifferenceSeverity = "error"
)

// EquivalencyDifference is one observed divergence between source and output
type EquivalencyDifference struct {
	Severity DifferenceSeverity `json:"severity"`
	Aspect   string             `json:"aspect"`
	Detail   string             `json:"detail"`
}

// EquivalencyReport is the validator's judgment of a transformation
type EquivalencyReport struct {
	// Equivalent is true only when no difference carries error severity
	Equivalent bool `json:"equivalent"`

	// LogicPreservation scores retained business logic, 0-100
	LogicPreservation int `json:"logic_preservation"`

	// TypeSafety scores generated type coverage, 0-100
	TypeSafety int `json:"type_safety"`

	// Differences are all observed divergences
	Differences []EquivalencyDifference `json:"differences,omitempty"`

	// OverallScore is the weighted quality score, 0-100
	OverallScore int `json:"overall_score"`

	// ProductionReady is false whenever OverallScore < 70
	ProductionReady bool `json:"production_ready"`
}
