package arbor

import (
	"context"
	"sort"
	"sync"

	"github.com/jward/arbor/internal/ast"
)

// runJobsParallel dispatches file jobs to a bounded worker pool: a
// dispatcher feeds jobs on a channel, workers return results on a completion
// channel, and the collector re-sorts by original index. Cancellation stops
// the dispatcher from feeding further jobs — those degrade to canceled
// markers — while in-flight workers finish their current file, so no worker
// slot is ever leaked.
func (g *Generator) runJobsParallel(ctx context.Context, jobs []fileJob) []fileResult {
	numWorkers := min(g.maxWorkers, len(jobs))
	g.log.WithField("files", len(jobs)).WithField("workers", numWorkers).Debug("dispatching parallel analysis")

	workCh := make(chan fileJob)
	// Buffered so the dispatcher's canceled markers never block on the
	// collector.
	resultCh := make(chan fileResult, len(jobs))

	go func() {
		defer close(workCh)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				f := ast.FailureFor(job.path, ctx.Err())
				resultCh <- fileResult{index: job.index, failure: &f}
			case workCh <- job:
			}
		}
	}()

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each file task owns its own tree construction; no mutable
			// state is shared between workers beyond the read-only registry.
			for job := range workCh {
				resultCh <- g.runOne(ctx, job)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]fileResult, 0, len(jobs))
	for res := range resultCh {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})
	return results
}
