package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latency holds the minimum, average and maximum request latency.
type Latency struct {
	Min time.Duration
	Avg time.Duration
	Max time.Duration
}

// Percentiles holds histogram-derived latency quantiles.
type Percentiles struct {
	P50 time.Duration
	P90 time.Duration
	P99 time.Duration
}

// RunReport summarizes one run. It is not modified after Reduce returns it.
type RunReport struct {
	RunIndex       int
	Requests       int
	Successes      int
	Failures       int
	StatusCounts   map[string]int
	ErrorKinds     map[string]int
	TotalTime      time.Duration
	RequestsPerSec float64
	Latency        Latency
	Percentiles    Percentiles

	// LatencySum and LatencyCount carry the raw totals the fold needs to
	// compute a request-weighted average across runs.
	LatencySum   time.Duration
	LatencyCount int

	hist *hdrhistogram.Histogram
}

// Reduce folds a run's outcomes into a RunReport. The result is identical for
// any ordering of outcomes.
func Reduce(runIndex int, outcomes []Outcome, elapsed time.Duration) RunReport {
	report := RunReport{
		RunIndex:     runIndex,
		Requests:     len(outcomes),
		StatusCounts: make(map[string]int),
		TotalTime:    elapsed,
		hist:         newLatencyHistogram(),
	}

	for i, o := range outcomes {
		report.LatencySum += o.Latency
		report.LatencyCount++
		if i == 0 || o.Latency < report.Latency.Min {
			report.Latency.Min = o.Latency
		}
		if o.Latency > report.Latency.Max {
			report.Latency.Max = o.Latency
		}
		recordLatency(report.hist, o.Latency)

		if o.Success() {
			report.Successes++
		}
		report.StatusCounts[o.StatusLabel()]++

		if kind := ErrorKind(o.Err); kind != "" {
			if report.ErrorKinds == nil {
				report.ErrorKinds = make(map[string]int)
			}
			report.ErrorKinds[kind]++
		}
	}
	report.Failures = report.Requests - report.Successes

	if report.LatencyCount > 0 {
		report.Latency.Avg = report.LatencySum / time.Duration(report.LatencyCount)
	}
	report.RequestsPerSec = ratePerSecond(report.Requests, elapsed)
	report.Percentiles = percentilesOf(report.hist)
	return report
}

// ratePerSecond returns n/elapsed, or 0 when elapsed is not positive.
func ratePerSecond(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}
