package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/torosent/burstfire/internal/metrics"
)

// WriteText writes the plain-text report.
func WriteText(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	headers, err := json.Marshal(doc.Headers)
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}

	fmt.Fprintf(bw, "Session: %s\n", doc.ID)
	fmt.Fprintf(bw, "Timestamp (UTC): %s\n", doc.TimestampUTC)
	fmt.Fprintf(bw, "URL: %s\n", doc.URL)
	fmt.Fprintf(bw, "Method: %s\n", doc.Method)
	fmt.Fprintf(bw, "Headers: %s\n", headers)
	fmt.Fprintf(bw, "Requests per run: %d\n", doc.NumRequests)
	fmt.Fprintf(bw, "Threads: %d\n", doc.NumThreads)
	fmt.Fprintf(bw, "Repeats: %d\n", doc.Repeats)
	fmt.Fprintf(bw, "Timeout (s): %s\n", formatNumber(doc.TimeoutSeconds))

	fmt.Fprintln(bw, "\nAggregate:")
	fmt.Fprintf(bw, "  Total requests: %d\n", doc.Aggregate.TotalRequests)
	writeTotals(bw, doc.Aggregate.Totals, "  ")

	fmt.Fprintln(bw, "\nRuns:")
	for _, run := range doc.Runs {
		fmt.Fprintf(bw, "  Run %d:\n", run.RunIndex)
		writeTotals(bw, run.Totals, "    ")
	}

	if len(doc.Thresholds) > 0 {
		fmt.Fprintln(bw, "\nThresholds:")
		for _, t := range doc.Thresholds {
			status := "PASS"
			if !t.Pass {
				status = "FAIL"
			}
			fmt.Fprintf(bw, "  [%s] %s (actual %s)\n", status, t.Threshold, formatNumber(t.Actual))
		}
	}

	return bw.Flush()
}

func writeTotals(w io.Writer, t Totals, indent string) {
	fmt.Fprintf(w, "%sSuccessful requests: %d\n", indent, t.SuccessCount)
	fmt.Fprintf(w, "%sFailed requests: %d\n", indent, t.FailedCount)
	fmt.Fprintf(w, "%sStatus counts: %s\n", indent, formatCounts(t.StatusCounts))
	if len(t.ErrorKinds) > 0 {
		fmt.Fprintf(w, "%sErrors: %s\n", indent, formatCounts(t.ErrorKinds))
	}
	fmt.Fprintf(w, "%sTotal time: %s seconds\n", indent, formatNumber(t.TotalTimeSeconds))
	fmt.Fprintf(w, "%sRequests per second: %s\n", indent, formatNumber(t.RequestsPerSecond))
	fmt.Fprintf(w, "%sLatency (s): min=%s avg=%s max=%s\n", indent,
		formatNumber(t.LatencySeconds.Min),
		formatNumber(t.LatencySeconds.Avg),
		formatNumber(t.LatencySeconds.Max))
	fmt.Fprintf(w, "%sLatency percentiles (s): p50=%s p90=%s p99=%s\n", indent,
		formatNumber(t.LatencyPercentilesSeconds.P50),
		formatNumber(t.LatencyPercentilesSeconds.P90),
		formatNumber(t.LatencyPercentilesSeconds.P99))
}

// formatCounts renders counts as {label: n, ...} in display order.
func formatCounts(counts map[string]int) string {
	rows := metrics.FlattenStatusCounts(counts)
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, row.Label+": "+strconv.Itoa(row.Count))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
