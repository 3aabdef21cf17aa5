package metrics

import (
	"strconv"
	"time"
)

const (
	// NoStatus marks an outcome whose attempt failed before a status was received.
	NoStatus = 0

	// ErrorLabel is the status bucket used for outcomes without a status.
	ErrorLabel = "error"

	successStatus = 200
)

// Outcome is the result of a single request attempt.
type Outcome struct {
	StatusCode int
	Latency    time.Duration
	Err        error
}

// HasStatus reports whether the attempt produced an HTTP status.
func (o Outcome) HasStatus() bool {
	return o.StatusCode != NoStatus
}

// Success reports whether the attempt counts as successful.
func (o Outcome) Success() bool {
	return o.StatusCode == successStatus
}

// StatusLabel returns the status bucket for the outcome.
func (o Outcome) StatusLabel() string {
	return StatusLabel(o.StatusCode)
}

// StatusLabel maps a status code to its bucket label.
func StatusLabel(code int) string {
	if code == NoStatus {
		return ErrorLabel
	}
	return strconv.Itoa(code)
}
