package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type summaryStyles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	subtle  lipgloss.Style
	section lipgloss.Style
}

func newSummaryStyles(w io.Writer) summaryStyles {
	r := lipgloss.NewRenderer(w)
	return summaryStyles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		label:   r.NewStyle().Foreground(lipgloss.Color("245")).Width(22),
		value:   r.NewStyle().Foreground(lipgloss.Color("15")),
		good:    r.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		bad:     r.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true),
		subtle:  r.NewStyle().Foreground(lipgloss.Color("#767676")),
		section: r.NewStyle().Bold(true).MarginTop(1),
	}
}

// PrintSummary writes the console summary of a session. Times and rates use
// two decimals.
func PrintSummary(w io.Writer, doc Document, paths Paths) {
	s := newSummaryStyles(w)
	agg := doc.Aggregate

	row := func(label string, value string) string {
		return s.label.Render(label) + s.value.Render(value)
	}
	failed := s.good.Render("0")
	if agg.FailedCount > 0 {
		failed = s.bad.Render(fmt.Sprintf("%d", agg.FailedCount))
	}

	lines := []string{
		s.title.Render("burstfire results"),
		s.subtle.Render(fmt.Sprintf("%s %s  |  %d x %d requests, %d threads", doc.Method, doc.URL, doc.Repeats, doc.NumRequests, doc.NumThreads)),
		"",
		row("Total requests:", fmt.Sprintf("%d", agg.TotalRequests)),
		row("Successful requests:", fmt.Sprintf("%d", agg.SuccessCount)),
		s.label.Render("Failed requests:") + failed,
		row("Total time:", fmt.Sprintf("%.2f seconds", agg.TotalTimeSeconds)),
		row("Requests per second:", fmt.Sprintf("%.2f", agg.RequestsPerSecond)),
		row("Latency (ms):", fmt.Sprintf("min %.2f  avg %.2f  max %.2f",
			agg.LatencySeconds.Min*1000, agg.LatencySeconds.Avg*1000, agg.LatencySeconds.Max*1000)),
		row("Percentiles (ms):", fmt.Sprintf("p50 %.2f  p90 %.2f  p99 %.2f",
			agg.LatencyPercentilesSeconds.P50*1000, agg.LatencyPercentilesSeconds.P90*1000, agg.LatencyPercentilesSeconds.P99*1000)),
		row("Status counts:", formatCounts(agg.StatusCounts)),
	}
	if len(agg.ErrorKinds) > 0 {
		lines = append(lines, row("Errors:", formatCounts(agg.ErrorKinds)))
	}

	if summary := doc.Summary(); summary != nil {
		lines = append(lines, s.section.Render(fmt.Sprintf("Thresholds (%d/%d passed)", summary.Passed, summary.Total)))
		for _, t := range summary.Results {
			mark := s.good.Render("✓")
			if !t.Pass {
				mark = s.bad.Render("✗")
			}
			lines = append(lines, fmt.Sprintf("  %s %s %s", mark, t.Threshold, s.subtle.Render(fmt.Sprintf("(actual %.2f)", t.Actual))))
		}
	}

	if paths.Text != "" || paths.JSON != "" {
		lines = append(lines, "", s.subtle.Render("Reports: "+strings.Join(paths.list(), ", ")))
	}

	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
