package runner_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/torosent/burstfire/internal/metrics"
	"github.com/torosent/burstfire/internal/runner"
)

type recordingLogger struct {
	mu   sync.Mutex
	errs []error
}

func (l *recordingLogger) LogFailure(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func TestWithLoggingReportsFailures(t *testing.T) {
	tests := []struct {
		name    string
		outcome metrics.Outcome
		want    string
	}{
		{name: "success", outcome: metrics.Outcome{StatusCode: 200}},
		{name: "status", outcome: metrics.Outcome{StatusCode: 404}, want: "HTTP 404: Not Found"},
		{name: "unknown status", outcome: metrics.Outcome{StatusCode: 599}, want: "HTTP 599"},
		{name: "transport", outcome: metrics.Outcome{Err: errors.New("dial failed")}, want: "dial failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			inner := runner.RequesterFunc(func(context.Context) metrics.Outcome { return tt.outcome })
			got := runner.WithLogging(inner, logger).Do(context.Background())
			if got.StatusCode != tt.outcome.StatusCode {
				t.Fatalf("outcome changed by middleware")
			}
			if tt.want == "" {
				if len(logger.errs) != 0 {
					t.Fatalf("expected no log entries, got %v", logger.errs)
				}
				return
			}
			if len(logger.errs) != 1 || !strings.Contains(logger.errs[0].Error(), tt.want) {
				t.Fatalf("expected %q logged, got %v", tt.want, logger.errs)
			}
		})
	}
}

func TestWithLoggingNilLoggerReturnsInner(t *testing.T) {
	inner := runner.RequesterFunc(func(context.Context) metrics.Outcome { return metrics.Outcome{} })
	if _, ok := runner.WithLogging(inner, nil).(runner.RequesterFunc); !ok {
		t.Fatalf("expected inner requester to be returned unchanged")
	}
}
