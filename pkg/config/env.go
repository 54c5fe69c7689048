package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "NETPROP_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type envBinding struct {
	name string
	set  func(c *Config, v string) error
}

var envBindings = []envBinding{
	{"NETWORK", func(c *Config, v string) error { c.Network.Path = v; return nil }},
	{"FORMAT", func(c *Config, v string) error { c.Network.Format = strings.ToLower(v); return nil }},
	{"MIN_SCORE", floatSetter(func(c *Config) *float64 { return &c.Network.MinScore })},
	{"DELIMITER", func(c *Config, v string) error { c.Network.Delimiter = v; return nil }},
	{"SEEDS", func(c *Config, v string) error { c.Seeds.Path = v; return nil }},
	{"SEED_LIST", func(c *Config, v string) error { c.Seeds.Inline = splitAndTrim(v, ","); return nil }},
	{"CASE_SENSITIVE", boolSetter(func(c *Config) *bool { return &c.Seeds.CaseSensitive })},
	{"ALGORITHM", func(c *Config, v string) error { c.Algorithm = strings.ToLower(v); return nil }},
	{"RESTART", floatSetter(func(c *Config) *float64 { return &c.RWR.Restart })},
	{"TOLERANCE", floatSetter(func(c *Config) *float64 { return &c.RWR.Tolerance })},
	{"MAX_ITERATIONS", intSetter(func(c *Config) *int { return &c.RWR.MaxIterations })},
	{"WEIGHTED", boolSetter(func(c *Config) *bool { return &c.RWR.Weighted })},
	{"STEPS", intSetter(func(c *Config) *int { return &c.Diamond.Steps })},
	{"SEED_WEIGHT", intSetter(func(c *Config) *int { return &c.Diamond.SeedWeight })},
	{"OUTDIR", func(c *Config, v string) error { c.Output.Dir = v; return nil }},
	{"TOP", intSetter(func(c *Config) *int { return &c.Output.Top })},
	{"REPORT", boolSetter(func(c *Config) *bool { return &c.Output.Report })},
	{"METRICS_FILE", func(c *Config, v string) error { c.Output.MetricsFile = v; return nil }},
	{"WORKERS", intSetter(func(c *Config) *int { return &c.Workers })},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = v; return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.Log.Format = strings.ToLower(v); return nil }},
}

// EnvNames lists the recognised environment variables.
func EnvNames() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = EnvPrefix + b.name
	}
	return names
}

// ApplyEnv overrides fields from NETPROP_* variables found by lookup. Empty
// values are ignored. Every malformed value is reported.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	var errs []error
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := b.set(c, strings.TrimSpace(v)); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, b.name, err))
		}
	}
	return errors.Join(errs...)
}

func floatSetter(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

// splitAndTrim splits a string and drops empty, whitespace-only parts
func splitAndTrim(s string, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
