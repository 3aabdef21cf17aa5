package output

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/torosent/burstfire/internal/metrics"
)

// HTMLReportData contains all data needed for the HTML report template.
type HTMLReportData struct {
	GeneratedAt      string
	Doc              Document
	StatusRows       []metrics.StatusRow
	ErrorRows        []metrics.StatusRow
	ThresholdSummary *ThresholdSummary
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatFloat": func(f float64) string {
		return fmt.Sprintf("%.2f", f)
	},
	"formatMillis": func(seconds float64) string {
		return fmt.Sprintf("%.2f ms", seconds*1000)
	},
	"formatPercent": func(part, total int) string {
		if total == 0 {
			return "0.0"
		}
		return fmt.Sprintf("%.1f", (float64(part)/float64(total))*100)
	},
}).Parse(htmlTemplate))

// GenerateHTMLReport generates a standalone HTML report.
func GenerateHTMLReport(w io.Writer, doc Document) error {
	data := HTMLReportData{
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		Doc:              doc,
		StatusRows:       metrics.FlattenStatusCounts(doc.Aggregate.StatusCounts),
		ErrorRows:        metrics.FlattenStatusCounts(doc.Aggregate.ErrorKinds),
		ThresholdSummary: doc.Summary(),
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>burstfire Load Test Report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
            padding: 20px;
        }
        .container {
            max-width: 1400px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px 40px;
        }
        header h1 {
            font-size: 2rem;
            margin-bottom: 10px;
        }
        header .meta {
            opacity: 0.9;
            font-size: 0.9rem;
        }
        .content {
            padding: 40px;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            border-left: 4px solid #667eea;
        }
        .card h3 {
            font-size: 0.9rem;
            color: #6c757d;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            margin-bottom: 10px;
        }
        .card .value {
            font-size: 2rem;
            font-weight: bold;
            color: #2c3e50;
        }
        .card .subvalue {
            font-size: 0.85rem;
            color: #6c757d;
            margin-top: 5px;
        }
        .card.success {
            border-left-color: #10b981;
        }
        .card.error {
            border-left-color: #ef4444;
        }
        .card.warning {
            border-left-color: #f59e0b;
        }
        .section {
            margin-bottom: 40px;
        }
        .section h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #e5e7eb;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            background: white;
        }
        th, td {
            text-align: left;
            padding: 12px;
            border-bottom: 1px solid #e5e7eb;
        }
        th {
            background: #f8f9fa;
            font-weight: 600;
            color: #4b5563;
            font-size: 0.9rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }
        tr:hover {
            background: #f8f9fa;
        }
        .badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.85rem;
            font-weight: 600;
        }
        .badge-success {
            background: #d1fae5;
            color: #065f46;
        }
        .badge-error {
            background: #fee2e2;
            color: #991b1b;
        }
        .latency-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
            gap: 15px;
            margin-top: 20px;
        }
        .latency-item {
            background: #f8f9fa;
            padding: 15px;
            border-radius: 6px;
            text-align: center;
        }
        .latency-item .label {
            font-size: 0.85rem;
            color: #6c757d;
            margin-bottom: 5px;
        }
        .latency-item .value {
            font-size: 1.3rem;
            font-weight: bold;
            color: #2c3e50;
        }
        .no-data {
            text-align: center;
            padding: 40px;
            color: #6c757d;
            font-style: italic;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>🔥 burstfire Load Test Report</h1>
            <div class="meta" style="margin-top: 5px;">Target: <a href="{{.Doc.URL}}" style="color: white; text-decoration: underline;">{{.Doc.Method}} {{.Doc.URL}}</a></div>
            <div class="meta">Session {{.Doc.ID}} | Started: {{.Doc.TimestampUTC}} | Generated: {{.GeneratedAt}}</div>
            <div class="meta">{{.Doc.Repeats}} runs x {{.Doc.NumRequests}} requests | {{.Doc.NumThreads}} threads | timeout {{.Doc.TimeoutSeconds}}s</div>
        </header>

        <div class="content">
            {{$agg := .Doc.Aggregate}}
            <!-- Summary Cards -->
            <div class="grid">
                <div class="card">
                    <h3>Total Requests</h3>
                    <div class="value">{{$agg.TotalRequests}}</div>
                </div>
                <div class="card success">
                    <h3>Successful</h3>
                    <div class="value">{{$agg.SuccessCount}}</div>
                    <div class="subvalue">{{formatPercent $agg.SuccessCount $agg.TotalRequests}}%</div>
                </div>
                <div class="card error">
                    <h3>Failed</h3>
                    <div class="value">{{$agg.FailedCount}}</div>
                    <div class="subvalue">{{formatPercent $agg.FailedCount $agg.TotalRequests}}%</div>
                </div>
                <div class="card">
                    <h3>Requests/sec</h3>
                    <div class="value">{{formatFloat $agg.RequestsPerSecond}}</div>
                    <div class="subvalue">over {{formatFloat $agg.TotalTimeSeconds}}s of run time</div>
                </div>
            </div>

            <!-- Latency Statistics -->
            <div class="section">
                <h2>Latency Statistics</h2>
                <div class="latency-grid">
                    <div class="latency-item">
                        <div class="label">Min</div>
                        <div class="value">{{formatMillis $agg.LatencySeconds.Min}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">Avg</div>
                        <div class="value">{{formatMillis $agg.LatencySeconds.Avg}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">Max</div>
                        <div class="value">{{formatMillis $agg.LatencySeconds.Max}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">P50</div>
                        <div class="value">{{formatMillis $agg.LatencyPercentilesSeconds.P50}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">P90</div>
                        <div class="value">{{formatMillis $agg.LatencyPercentilesSeconds.P90}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">P99</div>
                        <div class="value">{{formatMillis $agg.LatencyPercentilesSeconds.P99}}</div>
                    </div>
                </div>
            </div>

            <!-- Status Codes -->
            <div class="section">
                <h2>Status Codes</h2>
                {{if .StatusRows}}
                <table>
                    <thead>
                        <tr>
                            <th>Status</th>
                            <th>Count</th>
                            <th>Share</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .StatusRows}}
                        <tr>
                            <td><strong>{{.Label}}</strong></td>
                            <td>{{.Count}}</td>
                            <td>{{formatPercent .Count $agg.TotalRequests}}%</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="no-data">No requests were sent</div>
                {{end}}
            </div>

            {{if .ErrorRows}}
            <div class="section">
                <h2>Errors</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Error</th>
                            <th>Count</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .ErrorRows}}
                        <tr>
                            <td>{{.Label}}</td>
                            <td>{{.Count}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            <!-- Runs -->
            <div class="section">
                <h2>Runs</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Run</th>
                            <th>Success</th>
                            <th>Failed</th>
                            <th>Time</th>
                            <th>RPS</th>
                            <th>Avg Latency</th>
                            <th>P99 Latency</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Doc.Runs}}
                        <tr>
                            <td><strong>#{{.RunIndex}}</strong></td>
                            <td>{{.SuccessCount}}</td>
                            <td>{{.FailedCount}}</td>
                            <td>{{formatFloat .TotalTimeSeconds}}s</td>
                            <td>{{formatFloat .RequestsPerSecond}}</td>
                            <td>{{formatMillis .LatencySeconds.Avg}}</td>
                            <td>{{formatMillis .LatencyPercentilesSeconds.P99}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>

            <!-- Thresholds -->
            {{if .ThresholdSummary}}
            <div class="section">
                <h2>Thresholds ({{.ThresholdSummary.Passed}}/{{.ThresholdSummary.Total}} Passed)</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Threshold</th>
                            <th>Metric</th>
                            <th>Expected</th>
                            <th>Actual</th>
                            <th>Status</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .ThresholdSummary.Results}}
                        <tr>
                            <td>{{.Threshold}}</td>
                            <td>{{.Metric}} ({{.Aggregate}})</td>
                            <td>{{.Operator}} {{formatFloat .Expected}}</td>
                            <td>{{formatFloat .Actual}}</td>
                            <td>
                                {{if .Pass}}
                                <span class="badge badge-success">✓ PASS</span>
                                {{else}}
                                <span class="badge badge-error">✗ FAIL</span>
                                {{end}}
                            </td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            <!-- Request Headers -->
            {{if .Doc.Headers}}
            <div class="section">
                <h2>Request Headers</h2>
                <table>
                    <tbody>
                        {{range $name, $value := .Doc.Headers}}
                        <tr>
                            <td><strong>{{$name}}</strong></td>
                            <td>{{$value}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
        </div>
    </div>
</body>
</html>
`
