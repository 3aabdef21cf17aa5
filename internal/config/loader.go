package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Defaults returns a Config populated with the built-in defaults.
func Defaults() *Config {
	return &Config{
		Method:    DefaultMethod,
		Headers:   map[string]string{},
		Requests:  1,
		Threads:   1,
		Repeats:   1,
		Timeout:   DefaultTimeout,
		OutputDir: DefaultOutputDir,
		Tracing:   TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}
}

// Load parses command-line arguments and configuration files to produce a Config.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	// If no arguments provided and no config file, show help/usage
	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	raw := cfgViper.AllSettings()

	cfg := Defaults()
	cfg.ConfigFile = configPath

	if err := applyConfigSettings(cfg, raw); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	Normalize(cfg)
	return cfg, nil
}

// Normalize canonicalizes user-entered values in place.
func Normalize(cfg *Config) {
	cfg.Method = strings.ToUpper(strings.TrimSpace(cfg.Method))
	cfg.TargetURL = strings.TrimSpace(cfg.TargetURL)
	cfg.OutputDir = strings.TrimSpace(cfg.OutputDir)
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, raw map[string]interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	s := settings(raw)

	var method string
	if err := s.setString(&method, "method"); err != nil {
		return err
	}
	if method != "" {
		cfg.Method = method
	}
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}

	for _, err := range []error{
		s.setString(&cfg.TargetURL, "target", "url"),
		s.mergeHeaders(cfg.Headers, "headers"),
		s.setInt(&cfg.Requests, "requests", "num_requests", "num-requests"),
		s.setInt(&cfg.Threads, "threads", "num_threads", "num-threads"),
		s.setInt(&cfg.Repeats, "repeats"),
		s.setDuration(&cfg.Timeout, "timeout"),
		s.setString(&cfg.OutputDir, "output_dir", "outputdir", "output-dir"),
		s.setBool(&cfg.JSONOutput, "json_output", "jsonoutput", "json-output"),
		s.setString(&cfg.HTMLOutput, "html_output", "htmloutput", "html-output"),
		s.setBool(&cfg.LogErrors, "log_errors", "logerrors", "log-errors"),
		s.setStrings(&cfg.Thresholds, "thresholds"),
	} {
		if err != nil {
			return err
		}
	}

	if section, ok := s.lookup("tracing"); ok {
		tracing, err := parseTracingConfig(section, cfg.Tracing)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		cfg.Tracing = tracing
	}
	return nil
}

// parseTracingConfig overlays a tracing section on base, so unset keys keep
// the defaults.
func parseTracingConfig(value interface{}, base TracingConfig) (TracingConfig, error) {
	s, err := sectionOf(value)
	if err != nil {
		return TracingConfig{}, err
	}
	t := base
	for _, err := range []error{
		s.setString(&t.Endpoint, "endpoint"),
		s.setString(&t.Protocol, "protocol"),
		s.setBool(&t.Insecure, "insecure"),
		s.setFloat(&t.SampleRate, "sample_rate", "samplerate", "sample-rate"),
		s.setString(&t.ServiceName, "service_name", "servicename", "service-name"),
	} {
		if err != nil {
			return TracingConfig{}, err
		}
	}
	t.Protocol = strings.ToLower(t.Protocol)

	if _, ok := s.lookup("propagate"); ok {
		var propagate bool
		if err := s.setBool(&propagate, "propagate"); err != nil {
			return TracingConfig{}, err
		}
		t.Propagate = &propagate
	}
	return t, nil
}
