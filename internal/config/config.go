// Package config loads tabcalc settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/leengari/tabcalc/internal/logging"
	"github.com/leengari/tabcalc/internal/pipeline"
)

// Environment variables that override file settings
const (
	EnvLogLevel      = "TABCALC_LOG_LEVEL"
	EnvSeqURL        = "TABCALC_SEQ_URL"
	EnvFailurePolicy = "TABCALC_FAILURE_POLICY"
)

// Config is the full set of settings
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LogConfig configures logging
type LogConfig struct {
	Level     string `yaml:"level"`
	SeqURL    string `yaml:"seqURL"`
	AddSource bool   `yaml:"addSource"`
}

// PipelineConfig configures the pipeline executor
type PipelineConfig struct {
	FailurePolicy string `yaml:"failurePolicy"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Log:      LogConfig{Level: "info"},
		Pipeline: PipelineConfig{FailurePolicy: string(pipeline.Rollback)},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment. lookup is os.LookupEnv
// outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvSeqURL); ok {
		c.Log.SeqURL = v
	}
	if v, ok := lookup(EnvFailurePolicy); ok {
		c.Pipeline.FailurePolicy = v
	}
}

// Validate checks every setting
func (c Config) Validate() error {
	var err error
	if _, e := logging.ParseLevel(c.Log.Level); e != nil {
		err = multierr.Append(err, e)
	}
	if _, e := pipeline.ParseFailurePolicy(c.Pipeline.FailurePolicy); e != nil {
		err = multierr.Append(err, e)
	}
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoggingOptions converts the log settings for logging.SetupLogger.
// The config must have passed Validate.
func (c Config) LoggingOptions() logging.Options {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.Options{
		Level:     level,
		AddSource: c.Log.AddSource,
		SeqURL:    c.Log.SeqURL,
	}
}

// FailurePolicy returns the parsed pipeline failure policy.
// The config must have passed Validate.
func (c Config) FailurePolicy() pipeline.FailurePolicy {
	p, _ := pipeline.ParseFailurePolicy(c.Pipeline.FailurePolicy)
	return p
}
