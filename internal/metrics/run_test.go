package metrics

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"
)

func outcomesOf(status int, latency time.Duration, n int) []Outcome {
	out := make([]Outcome, n)
	for i := range out {
		out[i] = Outcome{StatusCode: status, Latency: latency}
	}
	return out
}

// stripHistogram drops the unexported histogram so reports can be compared with DeepEqual.
func stripHistogram(r RunReport) RunReport {
	r.hist = nil
	return r
}

func TestReduceAllSuccessful(t *testing.T) {
	report := Reduce(1, outcomesOf(200, 10*time.Millisecond, 10), time.Second)

	if report.RunIndex != 1 {
		t.Errorf("RunIndex = %d, want 1", report.RunIndex)
	}
	if report.Successes != 10 || report.Failures != 0 {
		t.Errorf("successes/failures = %d/%d, want 10/0", report.Successes, report.Failures)
	}
	if !reflect.DeepEqual(report.StatusCounts, map[string]int{"200": 10}) {
		t.Errorf("StatusCounts = %v", report.StatusCounts)
	}
	if report.RequestsPerSec != 10.0 {
		t.Errorf("RequestsPerSec = %v, want 10", report.RequestsPerSec)
	}
	want := Latency{Min: 10 * time.Millisecond, Avg: 10 * time.Millisecond, Max: 10 * time.Millisecond}
	if report.Latency != want {
		t.Errorf("Latency = %+v, want %+v", report.Latency, want)
	}
	if report.ErrorKinds != nil {
		t.Errorf("ErrorKinds = %v, want nil", report.ErrorKinds)
	}
}

func TestReduceMixedOutcomes(t *testing.T) {
	outcomes := []Outcome{
		{StatusCode: 200, Latency: 5 * time.Millisecond},
		{StatusCode: 200, Latency: 7 * time.Millisecond},
		{StatusCode: 200, Latency: 9 * time.Millisecond},
		{StatusCode: 404, Latency: 3 * time.Millisecond},
		{StatusCode: NoStatus, Latency: 20 * time.Millisecond, Err: errors.New("dial tcp: refused")},
	}
	report := Reduce(2, outcomes, 100*time.Millisecond)

	wantCounts := map[string]int{"200": 3, "404": 1, "error": 1}
	if !reflect.DeepEqual(report.StatusCounts, wantCounts) {
		t.Errorf("StatusCounts = %v, want %v", report.StatusCounts, wantCounts)
	}
	if report.Successes != 3 || report.Failures != 2 {
		t.Errorf("successes/failures = %d/%d, want 3/2", report.Successes, report.Failures)
	}
	if report.Latency.Min != 3*time.Millisecond || report.Latency.Max != 20*time.Millisecond {
		t.Errorf("min/max = %s/%s", report.Latency.Min, report.Latency.Max)
	}
	if report.Latency.Avg != 44*time.Millisecond/5 {
		t.Errorf("avg = %s, want %s", report.Latency.Avg, 44*time.Millisecond/5)
	}
	if report.ErrorKinds["Request error"] != 1 {
		t.Errorf("ErrorKinds = %v", report.ErrorKinds)
	}
}

func TestReduceInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	statuses := []int{200, 201, 404, 500, NoStatus}
	for trial := 0; trial < 20; trial++ {
		n := 1 + rnd.Intn(200)
		outcomes := make([]Outcome, n)
		for i := range outcomes {
			outcomes[i] = Outcome{
				StatusCode: statuses[rnd.Intn(len(statuses))],
				Latency:    time.Duration(1+rnd.Intn(5000)) * time.Microsecond,
			}
		}
		report := Reduce(1, outcomes, time.Duration(1+rnd.Intn(1000))*time.Millisecond)

		if report.Successes+report.Failures != n {
			t.Fatalf("successes+failures = %d, want %d", report.Successes+report.Failures, n)
		}
		sum := 0
		for _, c := range report.StatusCounts {
			sum += c
		}
		if sum != n {
			t.Fatalf("status counts sum = %d, want %d", sum, n)
		}
		l := report.Latency
		if l.Min < 0 || l.Min > l.Avg || l.Avg > l.Max {
			t.Fatalf("latency ordering violated: %+v", l)
		}
	}
}

func TestReduceIsOrderIndependent(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	outcomes := make([]Outcome, 64)
	for i := range outcomes {
		status := 200
		if i%5 == 0 {
			status = 503
		}
		if i%11 == 0 {
			status = NoStatus
		}
		outcomes[i] = Outcome{StatusCode: status, Latency: time.Duration(rnd.Intn(900)+1) * time.Microsecond}
	}

	baseline := stripHistogram(Reduce(3, outcomes, 250*time.Millisecond))
	for i := 0; i < 10; i++ {
		shuffled := append([]Outcome(nil), outcomes...)
		rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := stripHistogram(Reduce(3, shuffled, 250*time.Millisecond))
		if !reflect.DeepEqual(got, baseline) {
			t.Fatalf("permutation %d changed the report:\n got  %+v\n want %+v", i, got, baseline)
		}
	}
}

func TestReduceZeroElapsedYieldsZeroRate(t *testing.T) {
	report := Reduce(1, outcomesOf(200, time.Millisecond, 3), 0)
	if report.RequestsPerSec != 0 {
		t.Fatalf("RequestsPerSec = %v, want 0", report.RequestsPerSec)
	}
}

func TestReduceEmpty(t *testing.T) {
	report := Reduce(1, nil, time.Second)
	if report.Latency != (Latency{}) {
		t.Errorf("Latency = %+v, want zero", report.Latency)
	}
	if report.Percentiles != (Percentiles{}) {
		t.Errorf("Percentiles = %+v, want zero", report.Percentiles)
	}
	if report.Requests != 0 || report.Failures != 0 {
		t.Errorf("unexpected counts %+v", report)
	}
}

func TestReducePercentiles(t *testing.T) {
	outcomes := make([]Outcome, 100)
	for i := range outcomes {
		outcomes[i] = Outcome{StatusCode: 200, Latency: time.Duration(i+1) * time.Millisecond}
	}
	report := Reduce(1, outcomes, time.Second)
	p := report.Percentiles
	if p.P50 < 49*time.Millisecond || p.P50 > 51*time.Millisecond {
		t.Errorf("P50 = %s, want ~50ms", p.P50)
	}
	if p.P99 < 98*time.Millisecond || p.P99 > 100*time.Millisecond {
		t.Errorf("P99 = %s, want ~99ms", p.P99)
	}
	if !(p.P50 <= p.P90 && p.P90 <= p.P99) {
		t.Errorf("percentiles not ordered: %+v", p)
	}
}
