// Package config handles the configuration directory, file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "todoctl"

	// ConfigFile is the optional TOML configuration filename.
	ConfigFile = "config.toml"

	// LogFile receives logs while the TUI owns the terminal.
	LogFile = "todoctl.log"

	// OAuthClientFile is the OAuth client credentials filename (googletasks backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (googletasks backend).
	TokenFile = "token.json"
)

// Backends.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
)

// Config holds configuration paths and settings.
// It is read once at startup and not changed afterwards.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the remote todo service: "rest" or "googletasks".
	Backend string

	// BaseURL is the REST API base URL, e.g. https://api.example.com.
	BaseURL string

	// APIKey is attached to every REST request.
	APIKey string

	// APIKeyHeader names the header carrying APIKey. Empty means
	// "Authorization: Bearer <key>".
	APIKeyHeader string

	// Reconcile is the cache reconciliation policy: "refetch" or "echo".
	Reconcile string

	// GoogleList is the Google Tasks list ID used by the googletasks backend.
	GoogleList string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is one of text, json, logfmt.
	LogFormat string

	// OTelEndpoint enables trace export when set.
	OTelEndpoint string
}

// New creates a new Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todoctl or $HOME/.config/todoctl.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:        dir,
		Backend:    BackendREST,
		Reconcile:  "refetch",
		GoogleList: "@default",
		LogLevel:   "info",
		LogFormat:  "text",
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to the TOML configuration file.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the TUI log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// Validate checks the settings a backend needs before any remote call.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendREST:
		if strings.TrimSpace(c.BaseURL) == "" {
			return fmt.Errorf("base URL not configured (set TODO_BASE_API_URL or base_url in %s)", c.FilePath())
		}
	case BackendGoogleTasks:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	switch c.Reconcile {
	case "refetch", "echo":
	default:
		return fmt.Errorf("unknown reconcile policy: %s", c.Reconcile)
	}
	return nil
}
