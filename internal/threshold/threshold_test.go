package threshold

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/torosent/burstfire/internal/metrics"
)

func repeatOutcome(o metrics.Outcome, n int) []metrics.Outcome {
	out := make([]metrics.Outcome, n)
	for i := range out {
		out[i] = o
	}
	return out
}

// sessionAggregate folds two one-second runs of ten requests each:
// 17 × 200, 2 × 500 and one connection error, 22ms average latency.
func sessionAggregate(t *testing.T) metrics.AggregateReport {
	t.Helper()
	first := append(
		repeatOutcome(metrics.Outcome{StatusCode: 200, Latency: 10 * time.Millisecond}, 8),
		repeatOutcome(metrics.Outcome{StatusCode: 500, Latency: 40 * time.Millisecond}, 2)...,
	)
	second := append(
		repeatOutcome(metrics.Outcome{StatusCode: 200, Latency: 20 * time.Millisecond}, 9),
		metrics.Outcome{Err: errors.New("connection refused"), Latency: 100 * time.Millisecond},
	)

	agg := metrics.NewAggregator()
	agg.Fold(metrics.Reduce(1, first, time.Second))
	agg.Fold(metrics.Reduce(2, second, time.Second))
	report := agg.Finalize()

	if report.TotalRequests != 20 || report.Failures != 3 {
		t.Fatalf("aggregate requests/failures = %d/%d, want 20/3", report.TotalRequests, report.Failures)
	}
	return report
}

func TestParse(t *testing.T) {
	got, err := Parse("  http_req_duration:p99 <= 250.5 ")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Metric != "http_req_duration" || got.Aggregate != "p99" || got.Operator != "<=" || got.Value != 250.5 {
		t.Errorf("Parse() = %+v", got)
	}
	if got.Raw != "http_req_duration:p99 <= 250.5" {
		t.Errorf("Raw = %q, want trimmed expression", got.Raw)
	}

	for _, expr := range []string{"http_req_failed:rate<0.01", "http_requests:count >= 20", "http_req_duration:min == 10"} {
		if _, err := Parse(expr); err != nil {
			t.Errorf("Parse(%q) error = %v", expr, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "empty", input: "  ", wantMsg: "empty threshold"},
		{name: "no aggregate", input: "http_req_duration < 5", wantMsg: "invalid threshold"},
		{name: "negative value", input: "http_req_duration:p50 < -5", wantMsg: "invalid threshold"},
		{name: "bad operator", input: "http_req_duration:p50 != 5", wantMsg: "invalid threshold"},
		{name: "unknown metric", input: "http_req_blocked:avg < 5", wantMsg: "unsupported metric"},
		{name: "p95 not recorded", input: "http_req_duration:p95 < 500", wantMsg: "supported: avg, max, min, p50, p90, p99"},
		{name: "percentile of failures", input: "http_req_failed:p99 < 1", wantMsg: "unsupported aggregate"},
		{name: "latency count", input: "http_req_duration:count < 1", wantMsg: "unsupported aggregate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.input)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Parse(%q) error = %q, want it to mention %q", tt.input, err, tt.wantMsg)
			}
		})
	}
}

func TestParseMultiple(t *testing.T) {
	if got, err := ParseMultiple(nil); got != nil || err != nil {
		t.Errorf("ParseMultiple(nil) = %v, %v", got, err)
	}

	got, err := ParseMultiple([]string{"http_req_failed:rate < 0.2", "http_requests:rate > 5"})
	if err != nil {
		t.Fatalf("ParseMultiple() error = %v", err)
	}
	if len(got) != 2 || got[1].Metric != "http_requests" {
		t.Errorf("ParseMultiple() = %+v", got)
	}

	_, err = ParseMultiple([]string{"http_req_failed:rate < 0.2", "bogus", "http_req_duration:p95 < 1"})
	if err == nil {
		t.Fatal("ParseMultiple() expected error")
	}
	for _, want := range []string{"threshold[1]", "threshold[2]"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
	if strings.Contains(err.Error(), "threshold[0]") {
		t.Errorf("error %q blames the valid threshold", err)
	}
}

func TestEvaluateAgainstSession(t *testing.T) {
	report := sessionAggregate(t)
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

	tests := []struct {
		expr       string
		wantActual float64
		wantPass   bool
	}{
		{"http_req_duration:avg < 25", 22, true},
		{"http_req_duration:avg == 22", 22, true},
		{"http_req_duration:min >= 10", 10, true},
		{"http_req_duration:max < 100", 100, false},
		{"http_req_duration:p50 < 25", ms(report.Percentiles.P50), true},
		{"http_req_duration:p90 < 30", ms(report.Percentiles.P90), false},
		{"http_req_duration:p99 >= 99", ms(report.Percentiles.P99), true},
		{"http_req_failed:rate < 0.1", 0.15, false},
		{"http_req_failed:rate <= 0.15", 0.15, true},
		{"http_req_failed:count == 3", 3, true},
		{"http_requests:count > 19", 20, true},
		{"http_requests:rate >= 10", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			th, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got := NewEvaluator([]Threshold{th}).Evaluate(report)
			if len(got) != 1 {
				t.Fatalf("Evaluate() returned %d results, want 1", len(got))
			}
			if math.Abs(got[0].Actual-tt.wantActual) > 1e-9 {
				t.Errorf("Actual = %v, want %v", got[0].Actual, tt.wantActual)
			}
			if got[0].Pass != tt.wantPass {
				t.Errorf("Pass = %v, want %v", got[0].Pass, tt.wantPass)
			}
		})
	}
}

func TestPercentilesComeFromHistogram(t *testing.T) {
	report := sessionAggregate(t)
	// 8 samples at 10ms and 9 at 20ms put the median in the 20ms bucket,
	// 2 at 40ms cover p90 and the single 100ms sample is p99.
	for _, tt := range []struct {
		expr     string
		min, max float64
	}{
		{"http_req_duration:p50 < 1", 20, 20.1},
		{"http_req_duration:p90 < 1", 40, 40.1},
		{"http_req_duration:p99 < 1", 100, 100.1},
	} {
		th, err := Parse(tt.expr)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.expr, err)
		}
		if got := th.Check(report).Actual; got < tt.min || got > tt.max {
			t.Errorf("%s actual = %v, want in [%v, %v]", th.Aggregate, got, tt.min, tt.max)
		}
	}
}

func TestEvaluateEmptySession(t *testing.T) {
	report := metrics.NewAggregator().Finalize()
	parsed, err := ParseMultiple([]string{"http_req_failed:rate == 0", "http_requests:rate > 0"})
	if err != nil {
		t.Fatalf("ParseMultiple() error = %v", err)
	}
	results := NewEvaluator(parsed).Evaluate(report)
	if !results[0].Pass {
		t.Error("failure rate of an empty session should be 0")
	}
	if results[1].Pass {
		t.Error("request rate of an empty session should not exceed 0")
	}
	if NewEvaluator(nil).Evaluate(report) != nil {
		t.Error("Evaluate() with no thresholds should return nil")
	}
}

func TestCheckUnparsedThreshold(t *testing.T) {
	report := sessionAggregate(t)

	built := Threshold{Metric: "http_req_failed", Aggregate: "count", Operator: "<", Value: 5}
	if r := built.Check(report); !r.Pass || r.Actual != 3 {
		t.Errorf("Check() = %+v, want pass with actual 3", r)
	}

	unknown := Threshold{Metric: "http_req_duration", Aggregate: "p95", Operator: "<", Value: 5}
	if r := unknown.Check(report); r.Pass {
		t.Errorf("Check() of unknown aggregate passed: %+v", r)
	}
}

func TestFailed(t *testing.T) {
	report := sessionAggregate(t)
	parsed, err := ParseMultiple([]string{
		"http_req_failed:rate < 0.1",
		"http_req_duration:avg < 25",
		"http_req_duration:max < 50",
	})
	if err != nil {
		t.Fatalf("ParseMultiple() error = %v", err)
	}

	failed := Failed(NewEvaluator(parsed).Evaluate(report))
	if len(failed) != 2 {
		t.Fatalf("Failed() returned %d results, want 2", len(failed))
	}
	if failed[0].Threshold.Raw != "http_req_failed:rate < 0.1" || failed[1].Threshold.Raw != "http_req_duration:max < 50" {
		t.Errorf("Failed() = %q, %q", failed[0].Threshold.Raw, failed[1].Threshold.Raw)
	}
	if Failed(nil) != nil {
		t.Error("Failed(nil) should be nil")
	}
}
