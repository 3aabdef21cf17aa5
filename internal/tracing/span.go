package tracing

import (
	"context"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/torosent/burstfire/internal/metrics"
)

func orNoop(tracer trace.Tracer) trace.Tracer {
	if tracer == nil {
		return noop.NewTracerProvider().Tracer(instrumentationName)
	}
	return tracer
}

// StartRequestSpan starts a client span for one HTTP attempt.
func StartRequestSpan(ctx context.Context, tracer trace.Tracer, method, target string) (context.Context, trace.Span) {
	ctx, span := orNoop(tracer).Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(
		semconv.HTTPRequestMethodKey.String(method),
		semconv.URLFull(target),
	)
	return ctx, span
}

// EndRequestSpan records the outcome of an attempt and ends its span.
func EndRequestSpan(span trace.Span, outcome metrics.Outcome) {
	attrs := []attribute.KeyValue{
		attribute.Float64("burstfire.latency_seconds", outcome.Latency.Seconds()),
	}
	err := outcome.Err
	if outcome.HasStatus() {
		attrs = append(attrs, semconv.HTTPResponseStatusCode(outcome.StatusCode))
		if err == nil && !outcome.Success() {
			span.SetAttributes(attrs...)
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(outcome.StatusCode))
			span.End()
			return
		}
	}
	EndSpan(span, err, attrs...)
}

// StartRunSpan starts the span that covers one run of a session.
func StartRunSpan(ctx context.Context, tracer trace.Tracer, runIndex, requests int) (context.Context, trace.Span) {
	ctx, span := orNoop(tracer).Start(ctx, "burstfire run")
	span.SetAttributes(
		attribute.Int("burstfire.run_index", runIndex),
		attribute.Int("burstfire.requests", requests),
	)
	return ctx, span
}

// EndRunSpan annotates a run span with the run's totals and ends it.
func EndRunSpan(span trace.Span, report metrics.RunReport) {
	span.SetAttributes(
		attribute.Int("burstfire.success_count", report.Successes),
		attribute.Int("burstfire.failed_count", report.Failures),
		attribute.Float64("burstfire.total_time_seconds", report.TotalTime.Seconds()),
		attribute.Float64("burstfire.requests_per_second", report.RequestsPerSec),
	)
	if report.Failures > 0 {
		span.SetStatus(codes.Error, strconv.Itoa(report.Failures)+" failed requests")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// InjectHTTPHeaders injects W3C trace context into HTTP headers.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
