package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/analyzer"
	"github.com/uplift-tools/uplift/internal/discovery"
	"github.com/uplift-tools/uplift/internal/inventory"
	"github.com/uplift-tools/uplift/internal/parser"
	"github.com/uplift-tools/uplift/internal/recovery"
)

// ErrAlreadyRunning is returned when Run is invoked while a run is active.
// The orchestrator executes at most one pipeline at a time.
var ErrAlreadyRunning = domain.NewRuntimeError("a pipeline run is already in progress", nil)

// OutputSink receives the finished result during the output phase
type OutputSink interface {
	WriteResult(result *domain.PipelineResult, req domain.InventoryRequest) error
}

// Options configures an orchestrator
type Options struct {
	// Analyzer tunes the dependency analyzer
	Analyzer analyzer.Config

	// Threshold is the readiness ready-threshold
	Threshold int

	// MaxUnitsPerPhase bounds roadmap phase size
	MaxUnitsPerPhase int

	// Concurrency bounds parallel per-unit work
	Concurrency int

	// Version is stamped into generated inventories
	Version string

	// Progress renders long-running task progress; nil disables it
	Progress domain.ProgressManager

	// Observers receive lifecycle events. Fixed at construction.
	Observers []domain.PipelineObserver

	// Recovery handles per-unit failures when SkipErrors is set
	Recovery *recovery.Handler

	// Output receives the finished result; nil skips the output phase body
	Output OutputSink
}

// Orchestrator drives the phases in strict order and reports weighted
// progress. Overall progress never decreases within a run.
type Orchestrator struct {
	opts    Options
	running atomic.Bool

	mu       sync.Mutex
	snapshot domain.ProgressSnapshot
}

// NewOrchestrator creates an orchestrator. Observers are registered here and
// for the orchestrator's lifetime; there is no later subscription.
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.Threshold <= 0 {
		opts.Threshold = 75
	}
	if opts.Recovery == nil {
		opts.Recovery = recovery.NewHandler()
	}
	return &Orchestrator{opts: opts}
}

// GenerateInventory runs the pipeline for the request. Only one run may be
// active per orchestrator; a second concurrent call fails immediately.
func (o *Orchestrator) GenerateInventory(ctx context.Context, req domain.InventoryRequest) (*domain.PipelineResult, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer o.running.Store(false)

	o.mu.Lock()
	o.snapshot = domain.ProgressSnapshot{}
	o.mu.Unlock()

	if req.Mode == "" {
		req.Mode = domain.ModeFull
	}
	last := req.Mode.LastPhase()

	result := &domain.PipelineResult{}
	for _, phase := range domain.PhaseSequence {
		select {
		case <-ctx.Done():
			return o.fail(result, domain.NewRuntimeError("pipeline cancelled", ctx.Err()))
		default:
		}

		o.enterPhase(phase)
		if err := o.runPhase(ctx, phase, req, result); err != nil {
			o.emit(domain.EventError, phase, err.Error())
			return o.fail(result, err)
		}
		o.completePhase(phase)

		if phase == last {
			break
		}
	}

	result.FinalPhase = domain.PhaseCompleted
	result.Progress = o.progress()
	return result, nil
}

// runPhase dispatches one phase body
func (o *Orchestrator) runPhase(ctx context.Context, phase domain.Phase, req domain.InventoryRequest, result *domain.PipelineResult) error {
	switch phase {
	case domain.PhaseInitialization:
		return o.initialize(req)
	case domain.PhaseDiscovery:
		return o.discover(ctx, req, result)
	case domain.PhaseParsing:
		return o.parse(ctx, req, result)
	case domain.PhaseDependencyAnalysis:
		return o.analyze(ctx, result)
	case domain.PhaseInventory:
		return o.buildInventory(req, result)
	case domain.PhaseOutput:
		if o.opts.Output == nil {
			return nil
		}
		result.Progress = o.progress()
		return o.opts.Output.WriteResult(result, req)
	case domain.PhaseCleanup:
		if o.opts.Progress != nil {
			o.opts.Progress.Close()
		}
		return nil
	}
	return nil
}

func (o *Orchestrator) initialize(req domain.InventoryRequest) error {
	if req.Root == "" {
		return domain.NewConfigurationError("no root directory configured", nil)
	}
	return nil
}

func (o *Orchestrator) discover(ctx context.Context, req domain.InventoryRequest, result *domain.PipelineResult) error {
	engine := discovery.NewEngine(domain.DiscoveryRequest{
		Root:            req.Root,
		IncludePatterns: req.IncludePatterns,
		ExcludePatterns: req.ExcludePatterns,
		UseGitIgnore:    true,
	})
	disc, err := engine.Discover(ctx)
	if err != nil {
		return err
	}
	result.Discovery = disc
	o.update(func(s *domain.ProgressSnapshot) {
		s.Discovered = len(disc.Components)
		s.Errors += len(disc.Errors)
		s.Warnings += len(disc.Warnings)
	})
	return nil
}

// parse runs structural parsing per unit through the bounded executor,
// heaviest units first
func (o *Orchestrator) parse(ctx context.Context, req domain.InventoryRequest, result *domain.PipelineResult) error {
	if result.Discovery == nil {
		return domain.NewRuntimeError("parsing started without discovery output", nil)
	}
	components := result.Discovery.Components
	result.ParseResult = make(map[string]*domain.ParseResult, len(components))

	var task domain.TaskProgress
	if o.opts.Progress != nil {
		task = o.opts.Progress.StartTask("parsing components", len(components))
		defer task.Complete()
	}

	var mu sync.Mutex
	exec := NewExecutor(o.opts.Concurrency, true)
	err := exec.Run(ctx, components, func(ctx context.Context, def *domain.ComponentDefinition) error {
		source := result.Discovery.Sources[def.ID]
		ast, parseErr := parser.ParseForFile(ctx, def.FilePath, source)
		pr := analyzer.ParseComponent(def, ast, parseErr)

		mu.Lock()
		result.ParseResult[def.ID] = pr
		mu.Unlock()

		if task != nil {
			task.Increment(1)
		}
		if parseErr != nil {
			perr := domain.NewParsingError(
				fmt.Sprintf("parsing %s failed", def.ID), parseErr).WithComponent(def.ID)
			if !req.SkipErrors {
				return perr
			}
			outcome := o.opts.Recovery.Handle(ctx, perr, nil)
			if outcome.Outcome == recovery.OutcomeFailed {
				return outcome.Err
			}
		}
		return nil
	}, func(done int) {
		o.update(func(s *domain.ProgressSnapshot) {
			s.Parsed = done
			if len(components) > 0 {
				s.PhasePercent = 100 * float64(done) / float64(len(components))
			}
		})
		o.emit(domain.EventProgress, domain.PhaseParsing, "")
	})
	if err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) analyze(ctx context.Context, result *domain.PipelineResult) error {
	if result.Discovery == nil {
		return domain.NewRuntimeError("analysis started without discovery output", nil)
	}
	a := analyzer.New(o.opts.Analyzer)
	analysis, err := a.AnalyzeAll(ctx, result.Discovery.Components, result.Discovery.Sources)
	if err != nil {
		return err
	}
	result.Analysis = analysis
	o.update(func(s *domain.ProgressSnapshot) {
		s.Analyzed = len(result.Discovery.Components)
		s.Warnings += len(analysis.Warnings)
	})
	return nil
}

func (o *Orchestrator) buildInventory(req domain.InventoryRequest, result *domain.PipelineResult) error {
	builder := inventory.NewBuilder(o.opts.Threshold, o.opts.MaxUnitsPerPhase, o.opts.Version)
	result.Inventory = builder.Build(req.Root, result.Discovery.Components, result.ParseResult, result.Analysis)
	return nil
}

// fail records the terminal state, keeping partial results
func (o *Orchestrator) fail(result *domain.PipelineResult, err error) (*domain.PipelineResult, error) {
	result.FinalPhase = domain.PhaseFailed
	result.Errors = append(result.Errors, err.Error())
	result.Progress = o.progress()
	return result, err
}

// enterPhase moves the snapshot to a new phase and announces it
func (o *Orchestrator) enterPhase(phase domain.Phase) {
	o.update(func(s *domain.ProgressSnapshot) {
		s.Phase = phase
		s.PhasePercent = 0
	})
	o.emit(domain.EventPhaseStart, phase, "")
}

// completePhase commits the phase's full weight into overall progress
func (o *Orchestrator) completePhase(phase domain.Phase) {
	o.update(func(s *domain.ProgressSnapshot) {
		s.PhasePercent = 100
	})
	o.emit(domain.EventPhaseComplete, phase, "")
}

// update applies a mutation and recomputes overall progress, clamping it to
// be non-decreasing
func (o *Orchestrator) update(f func(*domain.ProgressSnapshot)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	prev := o.snapshot.Overall
	f(&o.snapshot)
	o.snapshot.Overall = overallProgress(o.snapshot.Phase, o.snapshot.PhasePercent)
	if o.snapshot.Overall < prev {
		o.snapshot.Overall = prev
	}
}

// overallProgress sums completed phase weights plus the current phase's
// partial contribution
func overallProgress(current domain.Phase, phasePercent float64) float64 {
	total := 0.0
	for _, p := range domain.PhaseSequence {
		total += float64(domain.PhaseWeight(p))
	}
	if total == 0 {
		return 0
	}
	done := 0.0
	for _, p := range domain.PhaseSequence {
		if p == current {
			done += float64(domain.PhaseWeight(p)) * phasePercent / 100
			break
		}
		done += float64(domain.PhaseWeight(p))
	}
	return 100 * done / total
}

func (o *Orchestrator) progress() domain.ProgressSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot
}

// emit delivers one event to every observer with a copied snapshot
func (o *Orchestrator) emit(typ domain.EventType, phase domain.Phase, message string) {
	event := domain.PipelineEvent{
		Type:     typ,
		Phase:    phase,
		Message:  message,
		Progress: o.progress(),
	}
	for _, obs := range o.opts.Observers {
		obs.OnEvent(event)
	}
}
