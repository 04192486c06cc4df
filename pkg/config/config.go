package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for probe-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables; environment variables override YAML values. Secrets
// (datasource passwords) live in connection descriptors, never here.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8585"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Engine pool management configuration
	Engines EngineConfig `yaml:"engines"`

	// Profiler sampling configuration
	Profiler ProfilerConfig `yaml:"profiler"`
}

// EngineConfig holds engine pool management settings.
type EngineConfig struct {
	// TTLMinutes is how long idle engines are kept alive.
	TTLMinutes int `yaml:"ttl_minutes" env:"ENGINE_TTL_MINUTES" env-default:"5"`
	// MaxEnginesPerUser limits concurrent engines per user.
	MaxEnginesPerUser int `yaml:"max_engines_per_user" env:"ENGINE_MAX_PER_USER" env-default:"10"`
}

// ProfilerConfig holds sampling defaults.
type ProfilerConfig struct {
	// SamplePercent is the share of rows kept by random sampling, in
	// (0, 100].
	SamplePercent float64 `yaml:"sample_percent" env:"PROFILER_SAMPLE_PERCENT" env-default:"100"`
	// SampleRowLimit caps sampled rows per request; 0 means no cap.
	SampleRowLimit int `yaml:"sample_row_limit" env:"PROFILER_SAMPLE_ROW_LIMIT" env-default:"0"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. When no config.yaml exists, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Profiler.SamplePercent <= 0 || c.Profiler.SamplePercent > 100 {
		return fmt.Errorf("profiler sample_percent must be in (0, 100], got %v", c.Profiler.SamplePercent)
	}
	if c.Profiler.SampleRowLimit < 0 {
		return fmt.Errorf("profiler sample_row_limit must not be negative")
	}
	return nil
}
