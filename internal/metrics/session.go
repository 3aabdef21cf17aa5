package metrics

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Parameters are the validated inputs of a session.
type Parameters struct {
	URL      string
	Method   string
	Headers  map[string]string
	Requests int
	Threads  int
	Repeats  int
	Timeout  time.Duration
}

// SessionReport is the complete result of a session: its parameters, every
// run in order and the aggregate over all of them.
type SessionReport struct {
	ID         string
	Timestamp  time.Time
	Parameters Parameters
	Runs       []RunReport
	Aggregate  AggregateReport
}

// NewSessionReport stamps a session with a ULID and the current UTC time.
func NewSessionReport(params Parameters, runs []RunReport, aggregate AggregateReport) SessionReport {
	now := time.Now().UTC()
	return SessionReport{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Timestamp:  now,
		Parameters: params,
		Runs:       runs,
		Aggregate:  aggregate,
	}
}
