// Package output renders a session report as text, JSON, HTML and a styled
// console summary, and writes the report artifacts to disk.
package output

import (
	"math"
	"time"

	"github.com/torosent/burstfire/internal/metrics"
	"github.com/torosent/burstfire/internal/threshold"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// Document is the serialized form of a session. Values are rounded here and
// nowhere else: 4 decimals for times and rates, 6 for latencies.
type Document struct {
	ID             string                `json:"id"`
	TimestampUTC   string                `json:"timestamp_utc"`
	URL            string                `json:"url"`
	Method         string                `json:"method"`
	Headers        map[string]string     `json:"headers"`
	NumRequests    int                   `json:"num_requests"`
	NumThreads     int                   `json:"num_threads"`
	Repeats        int                   `json:"repeats"`
	TimeoutSeconds float64               `json:"timeout_seconds"`
	Runs           []RunSection          `json:"runs"`
	Aggregate      AggregateSection      `json:"aggregate"`
	Thresholds     []ThresholdResultJSON `json:"thresholds,omitempty"`
}

// Totals holds the fields shared by run and aggregate sections.
type Totals struct {
	SuccessCount              int               `json:"success_count"`
	FailedCount               int               `json:"failed_count"`
	StatusCounts              map[string]int    `json:"status_counts"`
	TotalTimeSeconds          float64           `json:"total_time_seconds"`
	RequestsPerSecond         float64           `json:"requests_per_second"`
	LatencySeconds            LatencySeconds    `json:"latency_seconds"`
	LatencyPercentilesSeconds PercentileSeconds `json:"latency_percentiles_seconds"`
	ErrorKinds                map[string]int    `json:"error_kinds,omitempty"`
}

type LatencySeconds struct {
	Min float64 `json:"min"`
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
}

type PercentileSeconds struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P99 float64 `json:"p99"`
}

type RunSection struct {
	RunIndex int `json:"run_index"`
	Totals
}

type AggregateSection struct {
	TotalRequests int `json:"total_requests"`
	Runs          int `json:"runs"`
	Totals
}

// ThresholdResultJSON is the serialized outcome of one threshold.
type ThresholdResultJSON struct {
	Threshold string  `json:"threshold"`
	Metric    string  `json:"metric"`
	Aggregate string  `json:"aggregate"`
	Operator  string  `json:"operator"`
	Expected  float64 `json:"expected"`
	Actual    float64 `json:"actual"`
	Pass      bool    `json:"pass"`
}

// ThresholdSummary counts passed and failed thresholds.
type ThresholdSummary struct {
	Total   int
	Passed  int
	Failed  int
	Results []ThresholdResultJSON
}

// NewDocument converts a session report and optional threshold results.
func NewDocument(session metrics.SessionReport, results []threshold.Result) Document {
	params := session.Parameters
	headers := params.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	doc := Document{
		ID:             session.ID,
		TimestampUTC:   session.Timestamp.UTC().Format(timestampLayout),
		URL:            params.URL,
		Method:         params.Method,
		Headers:        headers,
		NumRequests:    params.Requests,
		NumThreads:     params.Threads,
		Repeats:        params.Repeats,
		TimeoutSeconds: params.Timeout.Seconds(),
		Runs:           make([]RunSection, 0, len(session.Runs)),
	}

	for _, run := range session.Runs {
		doc.Runs = append(doc.Runs, RunSection{
			RunIndex: run.RunIndex,
			Totals: totals(run.Successes, run.Failures, run.StatusCounts, run.ErrorKinds,
				run.TotalTime, run.RequestsPerSec, run.Latency, run.Percentiles),
		})
	}

	agg := session.Aggregate
	doc.Aggregate = AggregateSection{
		TotalRequests: agg.TotalRequests,
		Runs:          agg.Runs,
		Totals: totals(agg.Successes, agg.Failures, agg.StatusCounts, agg.ErrorKinds,
			agg.TotalTime, agg.RequestsPerSec, agg.Latency, agg.Percentiles),
	}

	for _, r := range results {
		doc.Thresholds = append(doc.Thresholds, ThresholdResultJSON{
			Threshold: r.Threshold.Raw,
			Metric:    r.Threshold.Metric,
			Aggregate: r.Threshold.Aggregate,
			Operator:  r.Threshold.Operator,
			Expected:  r.Threshold.Value,
			Actual:    round(r.Actual, 4),
			Pass:      r.Pass,
		})
	}
	return doc
}

// Summary counts the document's threshold results, or returns nil if none.
func (d Document) Summary() *ThresholdSummary {
	if len(d.Thresholds) == 0 {
		return nil
	}
	s := &ThresholdSummary{Total: len(d.Thresholds), Results: d.Thresholds}
	for _, r := range d.Thresholds {
		if r.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

func totals(successes, failures int, status, kinds map[string]int, elapsed time.Duration, rps float64, lat metrics.Latency, pct metrics.Percentiles) Totals {
	if status == nil {
		status = map[string]int{}
	}
	t := Totals{
		SuccessCount:      successes,
		FailedCount:       failures,
		StatusCounts:      status,
		TotalTimeSeconds:  round(elapsed.Seconds(), 4),
		RequestsPerSecond: round(rps, 4),
		LatencySeconds: LatencySeconds{
			Min: latencySeconds(lat.Min),
			Avg: latencySeconds(lat.Avg),
			Max: latencySeconds(lat.Max),
		},
		LatencyPercentilesSeconds: PercentileSeconds{
			P50: latencySeconds(pct.P50),
			P90: latencySeconds(pct.P90),
			P99: latencySeconds(pct.P99),
		},
	}
	if len(kinds) > 0 {
		t.ErrorKinds = kinds
	}
	return t
}

func latencySeconds(d time.Duration) float64 {
	return round(d.Seconds(), 6)
}

func round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
