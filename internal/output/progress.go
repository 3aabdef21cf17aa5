package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/torosent/burstfire/internal/metrics"
)

// RunNotifier prints one line after each completed run.
type RunNotifier struct {
	mu     sync.Mutex
	writer io.Writer
	total  int
}

// NewRunNotifier creates a notifier for a session of total runs.
func NewRunNotifier(writer io.Writer, total int) *RunNotifier {
	if writer == nil {
		writer = io.Discard
	}
	return &RunNotifier{writer: writer, total: total}
}

// RunComplete reports a finished run. Safe for concurrent use.
func (n *RunNotifier) RunComplete(report metrics.RunReport) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(
		n.writer,
		"Run %d/%d: %d requests | %d ok | %d failed | %.2fs | %.2f req/s\n",
		report.RunIndex,
		n.total,
		report.Requests,
		report.Successes,
		report.Failures,
		report.TotalTime.Seconds(),
		report.RequestsPerSec,
	)
}
