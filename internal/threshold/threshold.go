// Package threshold evaluates pass/fail assertions against a session's
// aggregate report.
//
// An assertion reads "metric:aggregate op value", for example
// "http_req_duration:p99 < 250". Latencies compare in milliseconds, failure
// rates as a fraction and request rates in requests per second.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/torosent/burstfire/internal/metrics"
)

var exprPattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*(<=|>=|==|<|>)\s*([0-9]+(?:\.[0-9]+)?)$`)

// reading pulls one number out of an aggregate report.
type reading func(metrics.AggregateReport) float64

// catalog lists the aggregates each metric supports.
var catalog = map[string]map[string]reading{
	"http_req_duration": {
		"p50": func(r metrics.AggregateReport) float64 { return millis(r.Percentiles.P50) },
		"p90": func(r metrics.AggregateReport) float64 { return millis(r.Percentiles.P90) },
		"p99": func(r metrics.AggregateReport) float64 { return millis(r.Percentiles.P99) },
		"avg": func(r metrics.AggregateReport) float64 { return millis(r.Latency.Avg) },
		"min": func(r metrics.AggregateReport) float64 { return millis(r.Latency.Min) },
		"max": func(r metrics.AggregateReport) float64 { return millis(r.Latency.Max) },
	},
	"http_req_failed": {
		"count": func(r metrics.AggregateReport) float64 { return float64(r.Failures) },
		"rate":  failureRate,
	},
	"http_requests": {
		"count": func(r metrics.AggregateReport) float64 { return float64(r.TotalRequests) },
		"rate":  func(r metrics.AggregateReport) float64 { return r.RequestsPerSec },
	},
}

const epsilon = 1e-9

var operators = map[string]func(actual, want float64) bool{
	"<":  func(a, w float64) bool { return a < w },
	"<=": func(a, w float64) bool { return a < w || math.Abs(a-w) < epsilon },
	">":  func(a, w float64) bool { return a > w },
	">=": func(a, w float64) bool { return a > w || math.Abs(a-w) < epsilon },
	"==": func(a, w float64) bool { return math.Abs(a-w) < epsilon },
}

// Threshold is one parsed assertion.
type Threshold struct {
	Metric    string
	Aggregate string
	Operator  string
	Value     float64
	Raw       string // as written, for display

	read reading
}

// Result is the outcome of checking a Threshold against an aggregate.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
}

// Evaluator checks a fixed set of thresholds.
type Evaluator struct {
	thresholds []Threshold
}

func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{thresholds: thresholds}
}

// Evaluate returns one result per threshold, in input order.
func (e *Evaluator) Evaluate(report metrics.AggregateReport) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}
	results := make([]Result, len(e.thresholds))
	for i, t := range e.thresholds {
		results[i] = t.Check(report)
	}
	return results
}

// Check evaluates t against report. A Threshold that did not come from Parse
// is resolved by name and fails if the pair is unknown.
func (t Threshold) Check(report metrics.AggregateReport) Result {
	read := t.read
	if read == nil {
		read = catalog[t.Metric][t.Aggregate]
	}
	compare := operators[t.Operator]
	if read == nil || compare == nil {
		return Result{Threshold: t}
	}
	actual := read(report)
	return Result{Threshold: t, Actual: actual, Pass: compare(actual, t.Value)}
}

// Parse reads one "metric:aggregate op value" assertion.
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold")
	}
	m := exprPattern.FindStringSubmatch(s)
	if m == nil {
		return Threshold{}, fmt.Errorf("invalid threshold %q: want metric:aggregate op value, e.g. 'http_req_duration:p99 < 500'", s)
	}
	metric, aggregate, op := m[1], m[2], m[3]

	aggregates, ok := catalog[metric]
	if !ok {
		return Threshold{}, fmt.Errorf("unsupported metric %q (supported: %s)", metric, keys(catalog))
	}
	read, ok := aggregates[aggregate]
	if !ok {
		return Threshold{}, fmt.Errorf("unsupported aggregate %q for %s (supported: %s)", aggregate, metric, keys(aggregates))
	}
	value, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %w", m[4], err)
	}

	return Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  op,
		Value:     value,
		Raw:       s,
		read:      read,
	}, nil
}

// ParseMultiple parses every expression and reports all failures together.
func ParseMultiple(exprs []string) ([]Threshold, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	parsed := make([]Threshold, 0, len(exprs))
	var problems []string
	for i, s := range exprs {
		t, err := Parse(s)
		if err != nil {
			problems = append(problems, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		parsed = append(parsed, t)
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(problems, "; "))
	}
	return parsed, nil
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Pass {
			failed = append(failed, r)
		}
	}
	return failed
}

func failureRate(r metrics.AggregateReport) float64 {
	if r.TotalRequests == 0 {
		return 0
	}
	return float64(r.Failures) / float64(r.TotalRequests)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func keys[V any](m map[string]V) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
