package runner

import (
	"context"
	"fmt"
	"net/http"

	"github.com/torosent/burstfire/internal/metrics"
)

// HTTPError describes a response whose status does not count as a success.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, text)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// FailureLogger logs failed requests.
type FailureLogger interface {
	LogFailure(err error)
}

// loggingRequester wraps a Requester with failure logging.
type loggingRequester struct {
	inner  Requester
	logger FailureLogger
}

// WithLogging wraps a Requester to log failures. Transport errors are logged
// as is; responses with a non-success status are logged as *HTTPError.
func WithLogging(req Requester, logger FailureLogger) Requester {
	if logger == nil {
		return req
	}
	return &loggingRequester{
		inner:  req,
		logger: logger,
	}
}

func (l *loggingRequester) Do(ctx context.Context) metrics.Outcome {
	outcome := l.inner.Do(ctx)
	switch {
	case outcome.Err != nil:
		l.logger.LogFailure(outcome.Err)
	case !outcome.Success():
		l.logger.LogFailure(&HTTPError{StatusCode: outcome.StatusCode})
	}
	return outcome
}
