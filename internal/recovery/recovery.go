// Package recovery classifies pipeline errors and applies recovery
// strategies: retry with backoff, fallback to degraded output, or skip.
package recovery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uplift-tools/uplift/domain"
)

// Outcome is the result of one recovery attempt
type Outcome string

const (
	OutcomeRecovered Outcome = "recovered"
	OutcomeFallback  Outcome = "fallback"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result reports how an error was handled
type Result struct {
	// Outcome is the final disposition
	Outcome Outcome

	// Strategy names the strategy that produced the outcome
	Strategy string

	// Attempts counts retry attempts consumed
	Attempts int

	// ManualReview marks the unit for human follow-up
	ManualReview bool

	// Err is the terminal error when Outcome is failed
	Err error
}

// Strategy attempts to recover from one classified error
type Strategy interface {
	// Name identifies the strategy in results and history
	Name() string

	// CanHandle reports whether the strategy applies to the error
	CanHandle(err *domain.PipelineError) bool

	// Recover attempts recovery; op re-runs the failed operation
	Recover(ctx context.Context, err *domain.PipelineError, op func(context.Context) error) Result
}

// Classify wraps an arbitrary error into a PipelineError, inferring category
// and severity from the message when it is not already structured
func Classify(err error) *domain.PipelineError {
	var perr *domain.PipelineError
	if errors.As(err, &perr) {
		return perr
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		return domain.NewTimeoutError(msg, err)
	case strings.Contains(lower, "no such file") || strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "read failed"):
		return domain.NewFileSystemError(msg, err)
	case strings.Contains(lower, "parse") || strings.Contains(lower, "syntax"):
		return domain.NewParsingError(msg, err)
	case strings.Contains(lower, "out of memory"):
		return domain.NewPipelineError(domain.CategoryMemory, domain.SeverityCritical, msg, err)
	case strings.Contains(lower, "config"):
		return domain.NewConfigurationError(msg, err)
	default:
		return domain.NewRuntimeError(msg, err)
	}
}

// RetryPolicy bounds retry attempts with exponential backoff
type RetryPolicy struct {
	// Base is the first delay
	Base time.Duration

	// Max caps the per-attempt delay
	Max time.Duration

	// MaxAttempts bounds total attempts, including the first retry
	MaxAttempts int
}

// DefaultRetryPolicy returns the standard bounds
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Base:        200 * time.Millisecond,
		Max:         5 * time.Second,
		MaxAttempts: 3,
	}
}

// Delay computes the backoff before the given 1-based attempt:
// min(base * 2^(attempt-1), max)
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.Max {
			return p.Max
		}
	}
	if d > p.Max {
		return p.Max
	}
	return d
}

// RetryStrategy re-runs transient operations with bounded backoff
type RetryStrategy struct {
	Policy RetryPolicy
}

func (s *RetryStrategy) Name() string { return "retry" }

// CanHandle accepts transient categories only
func (s *RetryStrategy) CanHandle(err *domain.PipelineError) bool {
	switch err.Category {
	case domain.CategoryFileSystem, domain.CategoryDependency, domain.CategoryTimeout:
		return true
	}
	return false
}

func (s *RetryStrategy) Recover(ctx context.Context, perr *domain.PipelineError, op func(context.Context) error) Result {
	if op == nil {
		return Result{Outcome: OutcomeFailed, Strategy: s.Name(), Err: perr}
	}
	for attempt := 1; attempt <= s.Policy.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return Result{Outcome: OutcomeFailed, Strategy: s.Name(), Attempts: attempt - 1, Err: ctx.Err()}
		case <-time.After(s.Policy.Delay(attempt)):
		}
		if err := op(ctx); err == nil {
			return Result{Outcome: OutcomeRecovered, Strategy: s.Name(), Attempts: attempt}
		}
	}
	return Result{Outcome: OutcomeFailed, Strategy: s.Name(), Attempts: s.Policy.MaxAttempts, Err: perr}
}

// FallbackStrategy accepts degraded output and marks the unit for manual
// review instead of re-running the operation
type FallbackStrategy struct{}

func (s *FallbackStrategy) Name() string { return "fallback" }

func (s *FallbackStrategy) CanHandle(err *domain.PipelineError) bool {
	switch err.Category {
	case domain.CategoryParsing, domain.CategoryTransformation, domain.CategoryBusinessLogic:
		return true
	}
	return false
}

func (s *FallbackStrategy) Recover(_ context.Context, _ *domain.PipelineError, _ func(context.Context) error) Result {
	return Result{Outcome: OutcomeFallback, Strategy: s.Name(), ManualReview: true}
}

// SkipStrategy drops the failed unit and continues. Critical-severity errors
// are never skippable.
type SkipStrategy struct{}

func (s *SkipStrategy) Name() string { return "skip" }

func (s *SkipStrategy) CanHandle(err *domain.PipelineError) bool {
	if err.Severity == domain.SeverityCritical {
		return false
	}
	switch err.Category {
	case domain.CategoryValidation, domain.CategoryGeneration:
		return true
	}
	return false
}

func (s *SkipStrategy) Recover(_ context.Context, _ *domain.PipelineError, _ func(context.Context) error) Result {
	return Result{Outcome: OutcomeSkipped, Strategy: s.Name()}
}
