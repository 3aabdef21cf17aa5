package runner

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/burstfire/internal/metrics"
)

// Requester performs a single request attempt. Failures are reported in the
// returned outcome, never by panicking.
type Requester interface {
	Do(ctx context.Context) metrics.Outcome
}

// RequesterFunc adapts a function to the Requester interface.
type RequesterFunc func(ctx context.Context) metrics.Outcome

func (f RequesterFunc) Do(ctx context.Context) metrics.Outcome { return f(ctx) }

// Options configure the Runner.
type Options struct {
	Requests      int                            // attempts per run
	Threads       int                            // maximum attempts in flight
	Repeats       int                            // number of sequential runs
	NewRequester  func(worker int) Requester     // builds the requester owned by a worker slot (required)
	Tracer        trace.Tracer                   // optional; spans one per run
	OnRunComplete func(report metrics.RunReport) // optional hook called after each run
}

var errNoRequester = errors.New("requester is not configured")

func (o *Options) normalize() {
	if o.Threads <= 0 {
		o.Threads = 1
	}
	if o.Requests < 0 {
		o.Requests = 0
	}
	if o.Repeats <= 0 {
		o.Repeats = 1
	}
	if o.NewRequester == nil {
		o.NewRequester = func(int) Requester {
			return RequesterFunc(func(context.Context) metrics.Outcome {
				return metrics.Outcome{StatusCode: metrics.NoStatus, Err: errNoRequester}
			})
		}
	}
}

// workerCount is the number of worker slots a run needs.
func (o *Options) workerCount() int {
	if o.Requests < o.Threads {
		return o.Requests
	}
	return o.Threads
}
