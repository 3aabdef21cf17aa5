package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Defaults applied before config file and flag values.
const (
	DefaultMethod    = "GET"
	DefaultTimeout   = 10 * time.Second
	DefaultOutputDir = "output"
)

// Methods lists the HTTP methods a session may use.
var Methods = []string{"GET", "HEAD"}

type Config struct {
	TargetURL   string            `mapstructure:"target"`
	Method      string            `mapstructure:"method"`
	Headers     map[string]string `mapstructure:"headers"`
	Requests    int               `mapstructure:"requests"`
	Threads     int               `mapstructure:"threads"`
	Repeats     int               `mapstructure:"repeats"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	OutputDir   string            `mapstructure:"output_dir"`
	JSONOutput  bool              `mapstructure:"json_output"`
	HTMLOutput  string            `mapstructure:"html_output"`
	LogErrors   bool              `mapstructure:"log_errors"`
	Thresholds  []string          `mapstructure:"thresholds"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Interactive bool              `mapstructure:"-"`
	ConfigFile  string            `mapstructure:"-"`
}

// TracingConfig configures OpenTelemetry export. Tracing stays off unless an
// endpoint is configured here or through OTEL_EXPORTER_OTLP_ENDPOINT.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" (default) or "http"
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
	Propagate   *bool   `mapstructure:"propagate"` // nil follows Enabled
}

// DefaultServiceName is the OTel service.name used when none is configured.
const DefaultServiceName = "burstfire"

// Enabled reports whether spans should be exported.
func (t TracingConfig) Enabled() bool {
	return t.ExportEndpoint() != ""
}

// ExportEndpoint is the configured collector endpoint, falling back to
// OTEL_EXPORTER_OTLP_ENDPOINT. It may be host:port or a URL.
func (t TracingConfig) ExportEndpoint() string {
	if ep := strings.TrimSpace(t.Endpoint); ep != "" {
		return ep
	}
	return strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
}

// Service returns the service.name reported on exported spans.
func (t TracingConfig) Service() string {
	if name := strings.TrimSpace(t.ServiceName); name != "" {
		return name
	}
	if name := strings.TrimSpace(os.Getenv("OTEL_SERVICE_NAME")); name != "" {
		return name
	}
	return DefaultServiceName
}

// Transport returns the lowercased OTLP protocol, grpc when unset.
func (t TracingConfig) Transport() string {
	if p := strings.ToLower(strings.TrimSpace(t.Protocol)); p != "" {
		return p
	}
	return "grpc"
}

// ShouldPropagate reports whether W3C trace headers are injected into requests.
func (t TracingConfig) ShouldPropagate() bool {
	if t.Propagate != nil {
		return *t.Propagate
	}
	return t.Enabled()
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if err := ValidateTarget(c.TargetURL); err != nil {
		issues = append(issues, err.Error())
	}
	if err := ValidateMethod(c.Method); err != nil {
		issues = append(issues, err.Error())
	}
	if c.Requests < 1 {
		issues = append(issues, "requests must be >= 1")
	}
	if c.Threads < 1 {
		issues = append(issues, "threads must be >= 1")
	}
	if c.Repeats < 1 {
		issues = append(issues, "repeats must be >= 1")
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be > 0")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		issues = append(issues, "output_dir is required")
	}
	for k := range c.Headers {
		if strings.TrimSpace(k) == "" {
			issues = append(issues, "header key cannot be empty")
			break
		}
	}
	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if c.Threads > 500 {
		fmt.Fprintf(os.Stderr, "WARNING: High thread count configured (%d workers). Ensure you have authorization to test the target system.\n", c.Threads)
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

// ValidateTarget checks that raw is an absolute http or https URL.
func ValidateTarget(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("target is required (use --help for usage information)")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("target is not a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("target must include a host")
	}
	return nil
}

// ValidateMethod checks that method is one of Methods.
func ValidateMethod(method string) error {
	for _, m := range Methods {
		if method == m {
			return nil
		}
	}
	return fmt.Errorf("method must be one of %s, got %q", strings.Join(Methods, ", "), method)
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(strings.TrimSpace(t.Protocol)) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing: protocol must be 'grpc' or 'http', got %q", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing: sample_rate must be between 0.0 and 1.0, got %g", t.SampleRate))
	}
	return issues
}
