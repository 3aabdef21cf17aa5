package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/torosent/burstfire/internal/config"
	"github.com/torosent/burstfire/internal/httpclient"
	"github.com/torosent/burstfire/internal/metrics"
	"github.com/torosent/burstfire/internal/output"
	"github.com/torosent/burstfire/internal/pool"
	"github.com/torosent/burstfire/internal/prompt"
	"github.com/torosent/burstfire/internal/runner"
	"github.com/torosent/burstfire/internal/threshold"
	"github.com/torosent/burstfire/internal/tracing"
)

const tracingShutdownTimeout = 5 * time.Second

type stderrFailureLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if cfg.Interactive {
		if err := prompt.Run(cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return execute(context.Background(), cfg, os.Stdout, os.Stderr)
}

// execute runs a validated session, writes its reports and evaluates the
// thresholds. Threshold failures are returned after the reports are written.
func execute(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	provider, err := tracing.Init(ctx, cfg.Tracing,
		tracing.SessionAttributes(cfg.TargetURL, cfg.Method, cfg.Requests, cfg.Threads, cfg.Repeats)...)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(stderr, "[burstfire] tracing shutdown: %v\n", err)
		}
	}()

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		return err
	}

	clients := pool.NewWorkerClients(func() *http.Client {
		return httpclient.NewClient(cfg.Timeout)
	})
	defer clients.Close()

	var logger runner.FailureLogger
	if cfg.LogErrors {
		logger = &stderrFailureLogger{w: stderr}
	}

	notifier := output.NewRunNotifier(stderr, cfg.Repeats)
	r := runner.New(runner.Options{
		Requests: cfg.Requests,
		Threads:  cfg.Threads,
		Repeats:  cfg.Repeats,
		NewRequester: func(worker int) runner.Requester {
			return runner.WithLogging(&httpRequester{
				client:    clients.Get(worker),
				builder:   builder,
				tracer:    provider.Tracer(),
				propagate: provider.ShouldPropagate(),
			}, logger)
		},
		Tracer:        provider.Tracer(),
		OnRunComplete: notifier.RunComplete,
	})

	result := r.Run(ctx)
	session := metrics.NewSessionReport(sessionParameters(cfg), result.Runs, result.Aggregate)

	var results []threshold.Result
	if len(thresholds) > 0 {
		results = threshold.NewEvaluator(thresholds).Evaluate(session.Aggregate)
	}
	doc := output.NewDocument(session, results)

	paths, err := output.WriteFiles(cfg.OutputDir, doc)
	if err != nil {
		return err
	}
	if cfg.HTMLOutput != "" {
		if err := output.WriteHTMLFile(cfg.HTMLOutput, doc); err != nil {
			return err
		}
		paths.HTML = cfg.HTMLOutput
	}

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(stdout, doc); err != nil {
			return err
		}
	} else {
		output.PrintSummary(stdout, doc, paths)
	}

	if failed := threshold.Failed(results); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = f.Threshold.Raw
		}
		return fmt.Errorf("%d of %d thresholds failed: %s", len(failed), len(results), strings.Join(names, "; "))
	}
	return nil
}

func sessionParameters(cfg *config.Config) metrics.Parameters {
	return metrics.Parameters{
		URL:      cfg.TargetURL,
		Method:   cfg.Method,
		Headers:  cfg.Headers,
		Requests: cfg.Requests,
		Threads:  cfg.Threads,
		Repeats:  cfg.Repeats,
		Timeout:  cfg.Timeout,
	}
}

func (l *stderrFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "[burstfire] request failed: %v\n", err)
}
