// Package config loads the application configuration: a JSON config file
// with environment overrides for the resolver and metrics surfaces, and a
// YAML catalog naming the vocabulary sources to load.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/c360/semvocab/errors"
)

// envPrefix is the prefix of all environment overrides.
const envPrefix = "SEMVOCAB"

// Config represents the complete application configuration.
type Config struct {
	Version  string         `json:"version"`
	Catalog  string         `json:"catalog"`
	Resolver ResolverConfig `json:"resolver"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// ResolverConfig carries the resolver behavior flags.
type ResolverConfig struct {
	ValidateUnits               bool `json:"validate_units"`
	WarnOnAmbiguousMissingUnits bool `json:"warn_on_ambiguous_missing_units"`
}

// MetricsConfig configures the optional Prometheus exposition server.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Path    string `json:"path"`
}

// Default returns the configuration used when no file is given: unit
// validation on, metrics off.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Resolver: ResolverConfig{
			ValidateUnits:               true,
			WarnOnAmbiguousMissingUnits: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// Load reads a JSON config file, applies environment overrides, and
// validates the result. An empty path yields the default configuration with
// overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "config", "Load", fmt.Sprintf("read %s", path))
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "config", "Load", "decode JSON")
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies SEMVOCAB_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(envPrefix + "_CATALOG"); val != "" {
		cfg.Catalog = val
	}
	if val := os.Getenv(envPrefix + "_VALIDATE_UNITS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Resolver.ValidateUnits = b
		}
	}
	if val := os.Getenv(envPrefix + "_WARN_AMBIGUOUS_UNITS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Resolver.WarnOnAmbiguousMissingUnits = b
		}
	}
	if val := os.Getenv(envPrefix + "_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv(envPrefix + "_METRICS_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Metrics.Port = p
		}
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return errors.WrapInvalid(
				fmt.Errorf("%w: metrics.port %d out of range", errors.ErrInvalidConfig, c.Metrics.Port),
				"config", "Validate", "check metrics port")
		}
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	return nil
}

// String returns a JSON representation of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
