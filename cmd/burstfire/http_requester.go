package main

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/burstfire/internal/httpclient"
	"github.com/torosent/burstfire/internal/metrics"
	"github.com/torosent/burstfire/internal/tracing"
)

// httpRequester implements runner.Requester for one worker slot. Its client
// is never shared with another worker.
type httpRequester struct {
	client    *http.Client
	builder   *httpclient.RequestBuilder
	tracer    trace.Tracer
	propagate bool
}

// Do performs one attempt and reports its outcome. Transport failures are
// carried in the outcome, never returned.
func (r *httpRequester) Do(ctx context.Context) metrics.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := tracing.StartRequestSpan(ctx, r.tracer, r.builder.Method(), r.builder.Target())

	start := time.Now()
	outcome := r.do(ctx)
	outcome.Latency = time.Since(start)

	tracing.EndRequestSpan(span, outcome)
	return outcome
}

func (r *httpRequester) do(ctx context.Context) metrics.Outcome {
	req, err := r.builder.Build(ctx)
	if err != nil {
		return metrics.Outcome{StatusCode: metrics.NoStatus, Err: err}
	}
	if r.propagate {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return metrics.Outcome{StatusCode: metrics.NoStatus, Err: err}
	}
	httpclient.DrainAndClose(resp)
	return metrics.Outcome{StatusCode: resp.StatusCode}
}
