package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// fileConfig mirrors config.toml.
type fileConfig struct {
	Backend      string `toml:"backend"`
	BaseURL      string `toml:"base_url"`
	APIKey       string `toml:"api_key"`
	APIKeyHeader string `toml:"api_key_header"`
	Reconcile    string `toml:"reconcile"`
	GoogleList   string `toml:"google_list"`
	LogLevel     string `toml:"log_level"`
	LogFormat    string `toml:"log_format"`
	OTelEndpoint string `toml:"otel_endpoint"`
}

// envConfig holds raw environment values.
type envConfig struct {
	Backend      string `env:"TODO_BACKEND"`
	BaseURL      string `env:"TODO_BASE_API_URL"`
	APIKey       string `env:"TODO_PRIVATE_API_KEY"`
	APIKeyHeader string `env:"TODO_API_KEY_HEADER"`
	Reconcile    string `env:"TODO_RECONCILE"`
	GoogleList   string `env:"TODO_GOOGLE_LIST"`
	LogLevel     string `env:"TODO_LOG_LEVEL"`
	LogFormat    string `env:"TODO_LOG_FORMAT"`
	OTelEndpoint string `env:"TODO_OTEL_ENDPOINT"`
}

// Load builds the configuration from, in increasing priority:
// 1. Defaults
// 2. config.toml in the config directory (optional)
// 3. Environment variables
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	var file fileConfig
	if _, err := toml.DecodeFile(cfg.FilePath(), &file); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", cfg.FilePath(), err)
		}
	} else {
		cfg.merge(file)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.merge(fileConfig(raw))

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Reconcile = strings.ToLower(strings.TrimSpace(cfg.Reconcile))
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return cfg, nil
}

// merge overrides settings with the non-empty values of src.
func (c *Config) merge(src fileConfig) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Backend, src.Backend)
	set(&c.BaseURL, src.BaseURL)
	set(&c.APIKey, src.APIKey)
	set(&c.APIKeyHeader, src.APIKeyHeader)
	set(&c.Reconcile, src.Reconcile)
	set(&c.GoogleList, src.GoogleList)
	set(&c.LogLevel, src.LogLevel)
	set(&c.LogFormat, src.LogFormat)
	set(&c.OTelEndpoint, src.OTelEndpoint)
}
