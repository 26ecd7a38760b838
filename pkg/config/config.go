package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines runtime settings for pieflow.
type Config struct {
	// EngineBinary is the engine CLI used to submit tasks.
	EngineBinary string `yaml:"engineBinary"`
	// Workers caps concurrent engine calls.
	Workers int `yaml:"workers"`
	// NodeTimeout bounds each engine call, e.g. "100s". Empty disables it.
	NodeTimeout string `yaml:"nodeTimeout"`
	// PayloadMode selects the agent input shape: "lineage" or "content".
	PayloadMode string `yaml:"payloadMode"`
	// MaxOutput caps captured engine output bytes per node.
	MaxOutput int    `yaml:"maxOutput"`
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// LoadConfig loads configuration from a YAML file and environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		EngineBinary: "pie-cli",
		Workers:      4,
		NodeTimeout:  "100s",
		PayloadMode:  "content",
		MaxOutput:    1 << 20,
		LogLevel:     "info",
		LogFormat:    "text",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if bin := os.Getenv("PIEFLOW_ENGINE"); bin != "" {
		cfg.EngineBinary = bin
	}
	if mode := os.Getenv("PIEFLOW_PAYLOAD_MODE"); mode != "" {
		cfg.PayloadMode = mode
	}
	if level := os.Getenv("PIEFLOW_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Timeout parses NodeTimeout. Empty means no bound.
func (c *Config) Timeout() (time.Duration, error) {
	if c.NodeTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.NodeTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse nodeTimeout: %w", err)
	}
	return d, nil
}

// DefaultConfigPath returns the default location for the CLI config file.
func DefaultConfigPath() string {
	if path := os.Getenv("PIEFLOW_CONFIG"); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pieflow", "config.yaml")
}
