// Package pipeline orchestrates the migration analysis phases and drives
// per-unit work through a bounded parallel executor.
package pipeline

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/uplift-tools/uplift/domain"
)

// DefaultBatchSize bounds how many units run between progress checkpoints
const DefaultBatchSize = 16

// complexityRank orders units so the heaviest work starts first
var complexityRank = map[domain.ComplexityLevel]int{
	domain.ComplexityCritical: 0,
	domain.ComplexityComplex:  1,
	domain.ComplexityModerate: 2,
	domain.ComplexitySimple:   3,
}

// Executor runs per-unit work in fixed-size batches with bounded
// concurrency. Each batch completes fully before the next starts, giving the
// orchestrator stable progress checkpoints.
type Executor struct {
	concurrency  int
	batchSize    int
	sortByWeight bool
}

// NewExecutor creates an executor. Concurrency below 1 means serial.
func NewExecutor(concurrency int, sortByWeight bool) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{
		concurrency:  concurrency,
		batchSize:    DefaultBatchSize,
		sortByWeight: sortByWeight,
	}
}

// Run executes work for every component. A unit's error cancels the current
// batch and is returned; onBatchDone fires after each completed batch.
func (e *Executor) Run(ctx context.Context, components []*domain.ComponentDefinition, work func(context.Context, *domain.ComponentDefinition) error, onBatchDone func(done int)) error {
	ordered := components
	if e.sortByWeight {
		ordered = append([]*domain.ComponentDefinition{}, components...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return complexityRank[ordered[i].Complexity] < complexityRank[ordered[j].Complexity]
		})
	}

	done := 0
	for start := 0; start < len(ordered); start += e.batchSize {
		end := start + e.batchSize
		if end > len(ordered) {
			end = len(ordered)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.concurrency)
		for _, def := range ordered[start:end] {
			def := def
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				return work(gctx, def)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		done = end
		if onBatchDone != nil {
			onBatchDone(done)
		}
	}
	return nil
}
