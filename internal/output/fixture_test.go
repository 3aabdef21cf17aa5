package output_test

import (
	"errors"
	"testing"
	"time"

	"github.com/torosent/burstfire/internal/metrics"
	"github.com/torosent/burstfire/internal/output"
	"github.com/torosent/burstfire/internal/threshold"
)

// sampleSession has two runs of the same four outcomes, taking 2s and 1s.
func sampleSession(t *testing.T) metrics.SessionReport {
	t.Helper()
	outcomes := []metrics.Outcome{
		{StatusCode: 200, Latency: 10 * time.Millisecond},
		{StatusCode: 200, Latency: 30 * time.Millisecond},
		{StatusCode: 404, Latency: 20 * time.Millisecond},
		{Err: errors.New("boom"), Latency: 5 * time.Millisecond},
	}
	agg := metrics.NewAggregator()
	runs := []metrics.RunReport{
		metrics.Reduce(1, outcomes, 2*time.Second),
		metrics.Reduce(2, outcomes, time.Second),
	}
	for _, run := range runs {
		agg.Fold(run)
	}
	params := metrics.Parameters{
		URL:      "http://example.com/health",
		Method:   "GET",
		Headers:  map[string]string{"Accept": "application/json"},
		Requests: 4,
		Threads:  2,
		Repeats:  2,
		Timeout:  2500 * time.Millisecond,
	}
	return metrics.NewSessionReport(params, runs, agg.Finalize())
}

func sampleDocument(t *testing.T, thresholds ...string) output.Document {
	t.Helper()
	session := sampleSession(t)
	var results []threshold.Result
	if len(thresholds) > 0 {
		parsed, err := threshold.ParseMultiple(thresholds)
		if err != nil {
			t.Fatalf("ParseMultiple() error = %v", err)
		}
		results = threshold.NewEvaluator(parsed).Evaluate(session.Aggregate)
	}
	return output.NewDocument(session, results)
}
