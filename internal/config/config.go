// Package config loads and validates the medstat configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/davinderatgithub/median-aggregate/internal/errors"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// Config represents the complete medstat configuration.
type Config struct {
	// Input describes where values are read from.
	Input InputConfig `yaml:"input"`

	// Workers is the number of parallel aggregation workers.
	// Zero means one worker per CPU.
	Workers int `yaml:"workers"`

	// Approx configures sketch-based approximate aggregation.
	Approx ApproxConfig `yaml:"approx"`

	// Log configures logging output.
	Log LogConfig `yaml:"log"`
}

// InputConfig describes the value source.
type InputConfig struct {
	// Kind is the source kind: parquet or duckdb.
	Kind string `yaml:"kind"`

	// Path is the input file for parquet, or the database file for duckdb
	// (empty for an in-memory database).
	Path string `yaml:"path"`

	// Query is the SQL to run for duckdb sources. The first column of the
	// result is aggregated.
	Query string `yaml:"query"`

	// Type is the value type name: int32, int64, float32, float64,
	// numeric, text, bytes.
	Type string `yaml:"type"`
}

// ApproxConfig configures sketch-based approximate aggregation.
type ApproxConfig struct {
	// Enabled switches the run to an approximate median.
	Enabled bool `yaml:"enabled"`

	// Accuracy is the relative accuracy (0.01 = 1% error).
	Accuracy float64 `yaml:"accuracy"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// JSON switches output to JSON format.
	JSON bool `yaml:"json"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Kind: "parquet",
			Type: "float64",
		},
		Workers: 0,
		Approx: ApproxConfig{
			Enabled:  false,
			Accuracy: 0.01,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads and validates a configuration file. Fields absent from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	errs := &validationErrors{}

	switch c.Input.Kind {
	case "parquet":
		if c.Input.Path == "" {
			errs.add(apperrors.NewMissingField("input.path"))
		}
	case "duckdb":
		if c.Input.Query == "" {
			errs.add(apperrors.NewMissingField("input.query"))
		}
	default:
		errs.add(apperrors.NewValidation("input.kind", fmt.Sprintf("unknown kind %q", c.Input.Kind)))
	}

	if _, err := value.ParseTypeID(c.Input.Type); err != nil {
		errs.add(apperrors.NewValidation("input.type", err.Error()))
	}

	if c.Workers < 0 {
		errs.add(apperrors.NewValidation("workers", "must not be negative"))
	}

	if c.Approx.Enabled {
		if c.Approx.Accuracy <= 0 || c.Approx.Accuracy >= 1 {
			errs.add(apperrors.NewValidation("approx.accuracy", "must be in (0, 1)"))
		}
		switch c.Input.Type {
		case "int32", "int64", "int", "float32", "float64", "float":
		default:
			errs.add(apperrors.NewValidation("approx.enabled", "approximate aggregation needs a number type"))
		}
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs.add(apperrors.NewValidation("log.level", fmt.Sprintf("unknown level %q", c.Log.Level)))
	}

	return errs.err()
}

// TypeID returns the parsed input type. Validate must have passed.
func (c *Config) TypeID() value.TypeID {
	t, _ := value.ParseTypeID(c.Input.Type)
	return t
}

// validationErrors collects multiple validation errors.
type validationErrors struct {
	errors []error
}

func (v *validationErrors) add(err error) {
	if err != nil {
		v.errors = append(v.errors, err)
	}
}

func (v *validationErrors) err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return v
}

// Error implements the error interface.
func (v *validationErrors) Error() string {
	if len(v.errors) == 1 {
		return v.errors[0].Error()
	}
	msg := fmt.Sprintf("validation failed with %d errors:", len(v.errors))
	for _, err := range v.errors {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Unwrap returns the collected errors for errors.Is/As support.
func (v *validationErrors) Unwrap() []error {
	return v.errors
}
