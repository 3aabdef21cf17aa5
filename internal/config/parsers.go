// Package config provides configuration loading and parsing for burstfire.
package config

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// settings is one section of a config file as decoded by viper. Viper
// lowercases keys, so every alias is looked up lowercased.
type settings map[string]interface{}

// sectionOf converts a nested config section into settings.
func sectionOf(value interface{}) (settings, error) {
	m, err := cast.ToStringMapE(value)
	if err != nil {
		return nil, fmt.Errorf("expected a section, got %T", value)
	}
	s := make(settings, len(m))
	for k, v := range m {
		s[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return s, nil
}

func (s settings) lookup(aliases ...string) (interface{}, bool) {
	for _, key := range aliases {
		if val, ok := s[strings.ToLower(key)]; ok {
			return val, true
		}
	}
	return nil, false
}

// The set* helpers leave dst untouched when no alias is present. Errors are
// prefixed with the first alias.

func (s settings) setString(dst *string, aliases ...string) error {
	raw, ok := s.lookup(aliases...)
	if !ok {
		return nil
	}
	val, err := cast.ToStringE(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", aliases[0], err)
	}
	*dst = strings.TrimSpace(val)
	return nil
}

func (s settings) setInt(dst *int, aliases ...string) error {
	raw, ok := s.lookup(aliases...)
	if !ok {
		return nil
	}
	val, err := toInt(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", aliases[0], err)
	}
	*dst = val
	return nil
}

func (s settings) setFloat(dst *float64, aliases ...string) error {
	raw, ok := s.lookup(aliases...)
	if !ok {
		return nil
	}
	if isBlank(raw) {
		*dst = 0
		return nil
	}
	val, err := cast.ToFloat64E(trimmed(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", aliases[0], err)
	}
	*dst = val
	return nil
}

func (s settings) setBool(dst *bool, aliases ...string) error {
	raw, ok := s.lookup(aliases...)
	if !ok {
		return nil
	}
	if isBlank(raw) {
		*dst = false
		return nil
	}
	val, err := cast.ToBoolE(trimmed(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", aliases[0], err)
	}
	*dst = val
	return nil
}

func (s settings) setDuration(dst *time.Duration, aliases ...string) error {
	raw, ok := s.lookup(aliases...)
	if !ok {
		return nil
	}
	val, err := toDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", aliases[0], err)
	}
	*dst = val
	return nil
}

func (s settings) setStrings(dst *[]string, aliases ...string) error {
	raw, ok := s.lookup(aliases...)
	if !ok {
		return nil
	}
	// cast splits a bare string on whitespace; a threshold is one expression.
	if str, isStr := raw.(string); isStr {
		*dst = []string{str}
		return nil
	}
	val, err := cast.ToStringSliceE(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", aliases[0], err)
	}
	*dst = val
	return nil
}

// mergeHeaders adds the section's headers to dst under canonical names.
func (s settings) mergeHeaders(dst map[string]string, aliases ...string) error {
	raw, ok := s.lookup(aliases...)
	if !ok || raw == nil {
		return nil
	}
	var hdrs map[string]string
	var err error
	if str, isStr := raw.(string); isStr {
		hdrs, err = ParseHeadersJSON(str)
	} else {
		hdrs, err = cast.ToStringMapStringE(raw)
		if err == nil {
			hdrs, err = canonicalHeaders(hdrs)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", aliases[0], err)
	}
	for k, v := range hdrs {
		dst[k] = v
	}
	return nil
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func trimmed(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

// toInt parses strings as base 10 so "010" stays ten.
func toInt(v interface{}) (int, error) {
	if isBlank(v) {
		return 0, nil
	}
	if s, ok := v.(string); ok {
		return strconv.Atoi(strings.TrimSpace(s))
	}
	return cast.ToIntE(v)
}

// toDuration reads a Go duration string ("1.5s") or a possibly fractional
// number of seconds, given as a number or a bare numeric string.
func toDuration(v interface{}) (time.Duration, error) {
	if isBlank(v) {
		return 0, nil
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return secondsToDuration(secs), nil
		}
		return time.ParseDuration(s)
	}
	secs, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("unsupported duration type %T", v)
	}
	return secondsToDuration(secs), nil
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

// canonicalHeaders rewrites header names into their canonical MIME form, the
// spelling net/http sends on the wire. Viper has already lowercased names read
// from a file.
func canonicalHeaders(in map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for k, v := range in {
		name := strings.TrimSpace(k)
		if name == "" {
			return nil, fmt.Errorf("header key cannot be empty")
		}
		out[http.CanonicalHeaderKey(name)] = v
	}
	return out, nil
}

// ParseHeadersJSON parses a JSON object of header names to values. Blank input
// yields an empty map. Non-string values are kept in their JSON text form and
// names are canonicalized.
func ParseHeadersJSON(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]string{}, nil
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("headers must be a valid JSON object")
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("headers must be a JSON object")
	}
	headers := map[string]string{}
	parsed.ForEach(func(key, value gjson.Result) bool {
		headers[key.String()] = value.String()
		return true
	})
	return canonicalHeaders(headers)
}
