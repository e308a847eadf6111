package domain

import (
	"context"
	"io"
)

// Phase identifies one stage of the migration pipeline
type Phase string

const (
	PhaseInitialization     Phase = "initialization"
	PhaseDiscovery          Phase = "discovery"
	PhaseParsing            Phase = "parsing"
	PhaseDependencyAnalysis Phase = "dependency-analysis"
	PhaseInventory          Phase = "inventory-generation"
	PhaseOutput             Phase = "output-generation"
	PhaseCleanup            Phase = "cleanup"
	PhaseCompleted          Phase = "completed"
	PhaseFailed             Phase = "failed"
)

// PhaseSequence is the strict execution order of the pipeline
var PhaseSequence = []Phase{
	PhaseInitialization,
	PhaseDiscovery,
	PhaseParsing,
	PhaseDependencyAnalysis,
	PhaseInventory,
	PhaseOutput,
	PhaseCleanup,
}

// PhaseWeight returns the phase's contribution to overall progress.
// Cleanup and the terminal states contribute nothing.
func PhaseWeight(p Phase) int {
	switch p {
	case PhaseInitialization:
		return 5
	case PhaseDiscovery:
		return 20
	case PhaseParsing:
		return 30
	case PhaseDependencyAnalysis:
		return 25
	case PhaseInventory:
		return 15
	case PhaseOutput:
		return 5
	default:
		return 0
	}
}

// PipelineMode restricts execution to a prefix of the phase sequence
type PipelineMode string

const (
	// ModeFull runs every phase
	ModeFull PipelineMode = "full"

	// ModeDiscoveryOnly stops after discovery
	ModeDiscoveryOnly PipelineMode = "discovery-only"

	// ModeAnalysisOnly stops after dependency analysis
	ModeAnalysisOnly PipelineMode = "analysis-only"
)

// LastPhase returns the final executed phase for the mode
func (m PipelineMode) LastPhase() Phase {
	switch m {
	case ModeDiscoveryOnly:
		return PhaseDiscovery
	case ModeAnalysisOnly:
		return PhaseDependencyAnalysis
	default:
		return PhaseCleanup
	}
}

// ProgressSnapshot is an immutable view of pipeline progress handed to
// observers. Observers must not retain mutable references into the pipeline.
type ProgressSnapshot struct {
	// Phase is the currently executing phase
	Phase Phase `json:"phase"`

	// PhasePercent is progress within the current phase, 0-100
	PhasePercent float64 `json:"phase_percent"`

	// Overall is the weighted overall progress, 0-100, monotonically
	// non-decreasing within a run
	Overall float64 `json:"overall"`

	// Running counters
	Discovered int `json:"discovered"`
	Parsed     int `json:"parsed"`
	Analyzed   int `json:"analyzed"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
}

// EventType identifies a pipeline lifecycle event
type EventType string

const (
	EventPhaseStart    EventType = "phase-start"
	EventPhaseComplete EventType = "phase-complete"
	EventProgress      EventType = "progress"
	EventError         EventType = "error"
)

// PipelineEvent is delivered to observers registered at construction
type PipelineEvent struct {
	Type     EventType        `json:"type"`
	Phase    Phase            `json:"phase"`
	Message  string           `json:"message,omitempty"`
	Progress ProgressSnapshot `json:"progress"`
}

// PipelineObserver receives lifecycle events. Observer lifetime is owned by
// the orchestrator run; implementations must not mutate the snapshot.
type PipelineObserver interface {
	OnEvent(event PipelineEvent)
}

// ObserverFunc adapts a function to PipelineObserver
type ObserverFunc func(event PipelineEvent)

// OnEvent implements PipelineObserver
func (f ObserverFunc) OnEvent(event PipelineEvent) { f(event) }

// PipelineResult carries everything a completed (or partially completed)
// run produced
type PipelineResult struct {
	FinalPhase  Phase                     `json:"final_phase"`
	Discovery   *DiscoveryResult          `json:"discovery,omitempty"`
	ParseResult map[string]*ParseResult   `json:"parse_results,omitempty"`
	Analysis    *DependencyAnalysisResult `json:"analysis,omitempty"`
	Inventory   *ComponentInventory       `json:"inventory,omitempty"`
	Progress    ProgressSnapshot          `json:"progress"`
	Errors      []string                  `json:"errors,omitempty"`
}

// ProgressManager creates progress tasks for long-running work
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks a single running task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// InventoryService drives the full analysis pipeline
type InventoryService interface {
	GenerateInventory(ctx context.Context, req InventoryRequest) (*PipelineResult, error)
}

// InventoryRequest configures a pipeline run
type InventoryRequest struct {
	Root            string
	Mode            PipelineMode
	IncludePatterns []string
	ExcludePatterns []string
	SkipErrors      bool
	OutputFormat    OutputFormat
	OutputWriter    io.Writer
	OutputDir       string
	Concurrency     int
	Threshold       int
}

// OutputFormat represents the supported report formats
type OutputFormat string

const (
	OutputFormatText     OutputFormat = "text"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatMarkdown OutputFormat = "markdown"
)
