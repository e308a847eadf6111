package recovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-tools/uplift/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message  string
		category domain.ErrorCategory
	}{
		{"operation timeout after 5s", domain.CategoryTimeout},
		{"context deadline exceeded", domain.CategoryTimeout},
		{"open x: no such file or directory", domain.CategoryFileSystem},
		{"open x: permission denied", domain.CategoryFileSystem},
		{"parse Button.tsx: syntax error", domain.CategoryParsing},
		{"out of memory", domain.CategoryMemory},
		{"invalid config value", domain.CategoryConfiguration},
		{"something else entirely", domain.CategoryRuntime},
	}
	for _, tt := range tests {
		perr := Classify(errors.New(tt.message))
		assert.Equal(t, tt.category, perr.Category, "message %q", tt.message)
	}
}

func TestClassify_PassesThroughPipelineError(t *testing.T) {
	orig := domain.NewValidationError("not equivalent", nil)
	perr := Classify(orig)
	assert.Same(t, orig, perr)
}

func TestClassify_WrappedPipelineError(t *testing.T) {
	orig := domain.NewParsingError("bad input", nil)
	wrapped := errors.Join(errors.New("outer"), orig)
	perr := Classify(wrapped)
	assert.Same(t, orig, perr)
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{Base: 200 * time.Millisecond, Max: 5 * time.Second, MaxAttempts: 10}

	assert.Equal(t, 200*time.Millisecond, p.Delay(1))
	assert.Equal(t, 400*time.Millisecond, p.Delay(2))
	assert.Equal(t, 800*time.Millisecond, p.Delay(3))
	assert.Equal(t, 5*time.Second, p.Delay(20), "delay caps at Max")
	assert.Equal(t, 200*time.Millisecond, p.Delay(0), "attempts below 1 clamp to the base")
}

func TestRetryStrategy_RecoversOnSecondAttempt(t *testing.T) {
	s := &RetryStrategy{Policy: RetryPolicy{Base: time.Millisecond, Max: time.Millisecond, MaxAttempts: 3}}
	perr := domain.NewFileSystemError("read failed", nil)

	calls := 0
	result := s.Recover(context.Background(), perr, func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("still failing")
		}
		return nil
	})

	assert.Equal(t, OutcomeRecovered, result.Outcome)
	assert.Equal(t, 2, result.Attempts)
}

func TestRetryStrategy_ExhaustsAttempts(t *testing.T) {
	s := &RetryStrategy{Policy: RetryPolicy{Base: time.Millisecond, Max: time.Millisecond, MaxAttempts: 2}}
	perr := domain.NewFileSystemError("read failed", nil)

	result := s.Recover(context.Background(), perr, func(context.Context) error {
		return errors.New("permanent")
	})

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, perr, result.Err)
}

func TestRetryStrategy_ContextCancelled(t *testing.T) {
	s := &RetryStrategy{Policy: RetryPolicy{Base: time.Minute, Max: time.Minute, MaxAttempts: 3}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := s.Recover(ctx, domain.NewTimeoutError("timeout", nil), func(context.Context) error {
		t.Fatal("op must not run after cancellation")
		return nil
	})

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestRetryStrategy_CanHandle(t *testing.T) {
	s := &RetryStrategy{Policy: DefaultRetryPolicy()}
	assert.True(t, s.CanHandle(domain.NewFileSystemError("x", nil)))
	assert.True(t, s.CanHandle(domain.NewTimeoutError("x", nil)))
	assert.False(t, s.CanHandle(domain.NewParsingError("x", nil)))
}

func TestFallbackStrategy(t *testing.T) {
	s := &FallbackStrategy{}
	perr := domain.NewParsingError("syntax error", nil)
	require.True(t, s.CanHandle(perr))

	result := s.Recover(context.Background(), perr, nil)
	assert.Equal(t, OutcomeFallback, result.Outcome)
	assert.True(t, result.ManualReview)
}

func TestSkipStrategy_RefusesCritical(t *testing.T) {
	s := &SkipStrategy{}

	validation := domain.NewValidationError("not equivalent", nil)
	assert.True(t, s.CanHandle(validation))

	critical := domain.NewPipelineError(domain.CategoryValidation, domain.SeverityCritical, "fatal", nil)
	assert.False(t, s.CanHandle(critical), "critical errors are never skippable")
}

func TestHandler_StrategyOrder(t *testing.T) {
	h := NewHandler()

	// Parsing errors skip the retry strategy and land in fallback
	result := h.Handle(context.Background(), domain.NewParsingError("syntax error", nil), nil)
	assert.Equal(t, OutcomeFallback, result.Outcome)
	assert.Equal(t, "fallback", result.Strategy)
}

func TestHandler_NoStrategyAccepts(t *testing.T) {
	h := NewHandler()

	result := h.Handle(context.Background(), domain.NewRuntimeError("boom", nil), nil)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	require.NotNil(t, result.Err)
}

func TestHandler_HistoryAndStats(t *testing.T) {
	h := NewHandler()

	h.Handle(context.Background(), domain.NewParsingError("first", nil), nil)
	h.Handle(context.Background(), domain.NewValidationError("second", nil), nil)
	h.Handle(context.Background(), domain.NewRuntimeError("third", nil), nil)

	history := h.History()
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Err.Message)
	assert.Equal(t, "third", history[2].Err.Message)

	stats := h.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByCategory[domain.CategoryParsing])
	assert.Equal(t, 1, stats.ByOutcome[OutcomeFallback])
	assert.Equal(t, 1, stats.ByOutcome[OutcomeSkipped])
	assert.Equal(t, 1, stats.ByOutcome[OutcomeFailed])
}

func TestHandler_HistoryRingWraps(t *testing.T) {
	h := NewHandler()

	for i := 0; i < DefaultHistorySize+5; i++ {
		h.Handle(context.Background(), domain.NewValidationError("overflow", nil), nil)
	}

	history := h.History()
	assert.Len(t, history, DefaultHistorySize, "history is bounded")
	assert.Equal(t, DefaultHistorySize, h.Stats().Total)
}
