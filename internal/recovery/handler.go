package recovery

import (
	"context"
	"sync"

	"github.com/uplift-tools/uplift/domain"
)

// DefaultHistorySize bounds the retained error history
const DefaultHistorySize = 128

// Record is one handled error kept in the history ring
type Record struct {
	Err      *domain.PipelineError
	Outcome  Outcome
	Strategy string
}

// Stats aggregates the retained history
type Stats struct {
	Total      int
	ByCategory map[domain.ErrorCategory]int
	BySeverity map[domain.ErrorSeverity]int
	ByOutcome  map[Outcome]int
}

// Handler routes classified errors through the registered strategies in
// order, preferring automatic recovery, and retains a bounded history.
type Handler struct {
	strategies []Strategy

	mu      sync.Mutex
	history []Record
	next    int
	filled  bool
}

// NewHandler creates a handler with the standard strategy order: retry
// first, then fallback, then skip.
func NewHandler(strategies ...Strategy) *Handler {
	if len(strategies) == 0 {
		strategies = []Strategy{
			&RetryStrategy{Policy: DefaultRetryPolicy()},
			&FallbackStrategy{},
			&SkipStrategy{},
		}
	}
	return &Handler{
		strategies: strategies,
		history:    make([]Record, DefaultHistorySize),
	}
}

// Handle classifies the error and applies the first strategy that accepts
// it. op, when non-nil, re-runs the failed operation for retry strategies.
func (h *Handler) Handle(ctx context.Context, err error, op func(context.Context) error) Result {
	perr := Classify(err)
	for _, s := range h.strategies {
		if !s.CanHandle(perr) {
			continue
		}
		result := s.Recover(ctx, perr, op)
		h.record(perr, result)
		return result
	}
	result := Result{Outcome: OutcomeFailed, Err: perr}
	h.record(perr, result)
	return result
}

// record appends to the fixed-capacity ring
func (h *Handler) record(perr *domain.PipelineError, result Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history[h.next] = Record{Err: perr, Outcome: result.Outcome, Strategy: result.Strategy}
	h.next++
	if h.next == len(h.history) {
		h.next = 0
		h.filled = true
	}
}

// History returns the retained records, oldest first
func (h *Handler) History() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.filled {
		out := make([]Record, h.next)
		copy(out, h.history[:h.next])
		return out
	}
	out := make([]Record, 0, len(h.history))
	out = append(out, h.history[h.next:]...)
	out = append(out, h.history[:h.next]...)
	return out
}

// Stats aggregates the retained history by category, severity, and outcome
func (h *Handler) Stats() Stats {
	records := h.History()
	stats := Stats{
		Total:      len(records),
		ByCategory: make(map[domain.ErrorCategory]int),
		BySeverity: make(map[domain.ErrorSeverity]int),
		ByOutcome:  make(map[Outcome]int),
	}
	for _, r := range records {
		stats.ByCategory[r.Err.Category]++
		stats.BySeverity[r.Err.Severity]++
		stats.ByOutcome[r.Outcome]++
	}
	return stats
}
