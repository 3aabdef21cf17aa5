// Package runner provides the core load test execution engine for burstfire.
//
// A session is a fixed number of sequential runs. Each run dispatches exactly
// Options.Requests request attempts over at most Options.Threads worker
// goroutines, waits for every attempt to finish and reduces the outcomes into
// a [metrics.RunReport]. Run reports are folded into a
// [metrics.AggregateReport] as they complete.
//
// # Basic Usage
//
//	r := runner.New(runner.Options{
//		Requests: 100,
//		Threads:  10,
//		Repeats:  3,
//		NewRequester: func(worker int) runner.Requester {
//			return newRequesterFor(worker)
//		},
//	})
//	result := r.Run(ctx)
//
// # Requester Interface
//
// The [Requester] interface performs one attempt and never fails the run:
//
//	type Requester interface {
//		Do(ctx context.Context) metrics.Outcome
//	}
//
// Each worker slot owns the Requester built for it by Options.NewRequester,
// so a requester is never called concurrently and may hold per-worker
// transport state such as an HTTP client with its own connection pool.
//
// # Middleware
//
//   - [WithLogging]: log failed attempts
package runner
