package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// AggregateReport summarizes every run of a session.
type AggregateReport struct {
	Runs           int
	TotalRequests  int
	Successes      int
	Failures       int
	StatusCounts   map[string]int
	ErrorKinds     map[string]int
	TotalTime      time.Duration // sum of the runs' wall-clock times
	RequestsPerSec float64
	Latency        Latency
	Percentiles    Percentiles
}

// Aggregator accumulates run reports. Folding is commutative and associative,
// so runs may be folded in any order or split across aggregators and merged.
// The zero value is ready to use. An Aggregator is not safe for concurrent use.
type Aggregator struct {
	runs         int
	requests     int
	successes    int
	failures     int
	statusCounts map[string]int
	errorKinds   map[string]int
	totalTime    time.Duration
	latencySum   time.Duration
	latencyCount int
	minLatency   time.Duration
	maxLatency   time.Duration
	hist         *hdrhistogram.Histogram
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	a := &Aggregator{}
	a.lazyInit()
	return a
}

func (a *Aggregator) lazyInit() {
	if a.statusCounts == nil {
		a.statusCounts = make(map[string]int)
	}
	if a.errorKinds == nil {
		a.errorKinds = make(map[string]int)
	}
	if a.hist == nil {
		a.hist = newLatencyHistogram()
	}
}

// Fold adds one run report to the running totals.
func (a *Aggregator) Fold(r RunReport) {
	a.lazyInit()
	a.runs++
	a.requests += r.Requests
	a.successes += r.Successes
	a.failures += r.Failures
	a.totalTime += r.TotalTime
	mergeCounts(a.statusCounts, r.StatusCounts)
	mergeCounts(a.errorKinds, r.ErrorKinds)

	if r.LatencyCount > 0 {
		a.observeExtrema(r.Latency.Min, r.Latency.Max)
		a.latencySum += r.LatencySum
		a.latencyCount += r.LatencyCount
	}
	if r.hist != nil {
		a.hist.Merge(r.hist)
	}
}

// Merge adds the state of another aggregator, as if its runs had been folded here.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil {
		return
	}
	a.lazyInit()
	a.runs += other.runs
	a.requests += other.requests
	a.successes += other.successes
	a.failures += other.failures
	a.totalTime += other.totalTime
	mergeCounts(a.statusCounts, other.statusCounts)
	mergeCounts(a.errorKinds, other.errorKinds)

	if other.latencyCount > 0 {
		a.observeExtrema(other.minLatency, other.maxLatency)
		a.latencySum += other.latencySum
		a.latencyCount += other.latencyCount
	}
	if other.hist != nil {
		a.hist.Merge(other.hist)
	}
}

// observeExtrema must run before latencyCount is increased for the new samples.
func (a *Aggregator) observeExtrema(lo, hi time.Duration) {
	if a.latencyCount == 0 || lo < a.minLatency {
		a.minLatency = lo
	}
	if a.latencyCount == 0 || hi > a.maxLatency {
		a.maxLatency = hi
	}
}

// Finalize computes the derived rate and averages. The aggregator may keep
// folding afterwards.
func (a *Aggregator) Finalize() AggregateReport {
	report := AggregateReport{
		Runs:          a.runs,
		TotalRequests: a.requests,
		Successes:     a.successes,
		Failures:      a.failures,
		StatusCounts:  copyCounts(a.statusCounts),
		TotalTime:     a.totalTime,
		Latency: Latency{
			Min: a.minLatency,
			Max: a.maxLatency,
		},
		Percentiles: percentilesOf(a.hist),
	}
	if len(a.errorKinds) > 0 {
		report.ErrorKinds = copyCounts(a.errorKinds)
	}
	if a.latencyCount > 0 {
		report.Latency.Avg = a.latencySum / time.Duration(a.latencyCount)
	}
	report.RequestsPerSec = ratePerSecond(a.requests, a.totalTime)
	return report
}

func mergeCounts(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
