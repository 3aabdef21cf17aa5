package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/torosent/burstfire/internal/metrics"
	"github.com/torosent/burstfire/internal/tracing"
)

// Result is the outcome of a whole session.
type Result struct {
	Runs      []metrics.RunReport
	Aggregate metrics.AggregateReport
	Duration  time.Duration // session wall clock, including gaps between runs
}

// Runner coordinates concurrent dispatch within a run and sequential runs
// within a session.
type Runner struct {
	opt     Options
	workers []Requester
}

// New builds the runner and one requester per worker slot. Slots persist for
// every run of the session.
func New(opt Options) *Runner {
	opt.normalize()
	workers := make([]Requester, opt.workerCount())
	for i := range workers {
		workers[i] = opt.NewRequester(i)
	}
	return &Runner{opt: opt, workers: workers}
}

// Run executes every repetition in order and folds the reports.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	agg := metrics.NewAggregator()
	runs := make([]metrics.RunReport, 0, r.opt.Repeats)

	for idx := 1; idx <= r.opt.Repeats; idx++ {
		report := r.RunOnce(ctx, idx)
		runs = append(runs, report)
		agg.Fold(report)
		if r.opt.OnRunComplete != nil {
			r.opt.OnRunComplete(report)
		}
	}

	return Result{
		Runs:      runs,
		Aggregate: agg.Finalize(),
		Duration:  time.Since(start),
	}
}

// RunOnce dispatches Options.Requests attempts over the worker slots and
// blocks until all of them have completed.
func (r *Runner) RunOnce(ctx context.Context, runIndex int) metrics.RunReport {
	ctx, span := tracing.StartRunSpan(ctx, r.opt.Tracer, runIndex, r.opt.Requests)

	outcomes := make([]metrics.Outcome, r.opt.Requests)
	start := time.Now()

	// Each permit is the index of the outcome slot the worker must fill.
	permits := make(chan int, len(outcomes))
	for slot := range outcomes {
		permits <- slot
	}
	close(permits)

	var wg sync.WaitGroup
	wg.Add(len(r.workers))
	for _, req := range r.workers {
		go func(req Requester) {
			defer wg.Done()
			for slot := range permits {
				outcomes[slot] = attempt(ctx, req)
			}
		}(req)
	}
	wg.Wait()

	report := metrics.Reduce(runIndex, outcomes, time.Since(start))
	tracing.EndRunSpan(span, report)
	return report
}

// attempt runs one request, turning a panic into a failed outcome.
func attempt(ctx context.Context, req Requester) (outcome metrics.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			outcome = metrics.Outcome{StatusCode: metrics.NoStatus, Err: fmt.Errorf("requester panicked: %v", p)}
		}
	}()
	return req.Do(ctx)
}
