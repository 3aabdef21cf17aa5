// Package prompt collects session parameters interactively.
package prompt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/torosent/burstfire/internal/config"
)

// fields holds the raw form input. huh binds to strings, so numbers are
// parsed after the form completes.
type fields struct {
	URL      string
	Requests string
	Threads  string
	Timeout  string
	Repeats  string
	Method   string
	Headers  string
}

func newFields(cfg *config.Config) (*fields, error) {
	headers := "{}"
	if len(cfg.Headers) > 0 {
		encoded, err := encodeHeaders(cfg.Headers)
		if err != nil {
			return nil, err
		}
		headers = encoded
	}
	method := strings.ToUpper(cfg.Method)
	if config.ValidateMethod(method) != nil {
		method = config.DefaultMethod
	}
	return &fields{
		URL:      cfg.TargetURL,
		Requests: strconv.Itoa(cfg.Requests),
		Threads:  strconv.Itoa(cfg.Threads),
		Timeout:  strconv.FormatFloat(cfg.Timeout.Seconds(), 'f', -1, 64),
		Repeats:  strconv.Itoa(cfg.Repeats),
		Method:   method,
		Headers:  headers,
	}, nil
}

// Run shows the form pre-filled from cfg and writes the answers back into it.
func Run(cfg *config.Config) error {
	f, err := newFields(cfg)
	if err != nil {
		return err
	}
	if err := newForm(f).Run(); err != nil {
		return fmt.Errorf("interactive prompt: %w", err)
	}
	return f.apply(cfg)
}

func newForm(f *fields) *huh.Form {
	methods := make([]huh.Option[string], 0, len(config.Methods))
	for _, m := range config.Methods {
		methods = append(methods, huh.NewOption(m, m))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target URL").
				Placeholder("https://example.com/health").
				Value(&f.URL).
				Validate(config.ValidateTarget),
			huh.NewSelect[string]().
				Title("HTTP method").
				Options(methods...).
				Value(&f.Method),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Requests per run").
				Value(&f.Requests).
				Validate(positiveInt("requests")),
			huh.NewInput().
				Title("Threads").
				Description("Maximum requests in flight").
				Value(&f.Threads).
				Validate(positiveInt("threads")),
			huh.NewInput().
				Title("Repeats").
				Value(&f.Repeats).
				Validate(positiveInt("repeats")),
			huh.NewInput().
				Title("Timeout (seconds)").
				Value(&f.Timeout).
				Validate(validateTimeout),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Headers").
				Description(`JSON object, e.g. {"Accept": "application/json"}`).
				Value(&f.Headers).
				Validate(validateHeaders),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithKeyMap(huh.NewDefaultKeyMap())
}

func (f *fields) apply(cfg *config.Config) error {
	if err := config.ValidateTarget(f.URL); err != nil {
		return err
	}
	if err := config.ValidateMethod(strings.ToUpper(f.Method)); err != nil {
		return err
	}
	requests, err := parsePositive("requests", f.Requests)
	if err != nil {
		return err
	}
	threads, err := parsePositive("threads", f.Threads)
	if err != nil {
		return err
	}
	repeats, err := parsePositive("repeats", f.Repeats)
	if err != nil {
		return err
	}
	timeout, err := parseTimeout(f.Timeout)
	if err != nil {
		return err
	}
	headers, err := config.ParseHeadersJSON(f.Headers)
	if err != nil {
		return err
	}

	cfg.TargetURL = strings.TrimSpace(f.URL)
	cfg.Method = strings.ToUpper(f.Method)
	cfg.Requests = requests
	cfg.Threads = threads
	cfg.Repeats = repeats
	cfg.Timeout = timeout
	cfg.Headers = headers
	return nil
}

func positiveInt(name string) func(string) error {
	return func(s string) error {
		_, err := parsePositive(name, s)
		return err
	}
}

func parsePositive(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be at least 1", name)
	}
	return n, nil
}

func validateTimeout(s string) error {
	_, err := parseTimeout(s)
	return err
}

// maxTimeoutSeconds keeps the conversion to time.Duration from overflowing.
const maxTimeoutSeconds = float64(math.MaxInt64 / int64(time.Second))

func parseTimeout(s string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("timeout must be a number of seconds")
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("timeout must be a finite number of seconds")
	}
	if secs <= 0 {
		return 0, fmt.Errorf("timeout must be greater than 0")
	}
	if secs > maxTimeoutSeconds {
		return 0, fmt.Errorf("timeout must be at most %.0f seconds", maxTimeoutSeconds)
	}
	d := time.Duration(secs * float64(time.Second))
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be at least 1ns")
	}
	return d, nil
}

func validateHeaders(s string) error {
	_, err := config.ParseHeadersJSON(s)
	return err
}

func encodeHeaders(headers map[string]string) (string, error) {
	raw, err := json.Marshal(headers)
	if err != nil {
		return "", fmt.Errorf("encode headers: %w", err)
	}
	return string(raw), nil
}
