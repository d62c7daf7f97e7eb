package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TODO_BACKEND", "TODO_BASE_API_URL", "TODO_PRIVATE_API_KEY", "TODO_API_KEY_HEADER",
		"TODO_RECONCILE", "TODO_GOOGLE_LIST", "TODO_LOG_LEVEL", "TODO_LOG_FORMAT", "TODO_OTEL_ENDPOINT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, config.BackendREST, cfg.Backend)
	assert.Equal(t, "refetch", cfg.Reconcile)
	assert.Equal(t, "@default", cfg.GoogleList)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.BaseURL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := `
base_url = "https://file.example.com/"
api_key = "file-key"
reconcile = "echo"
log_level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(file), 0600))
	t.Setenv("TODO_PRIVATE_API_KEY", "env-key")
	t.Setenv("TODO_API_KEY_HEADER", "x-api-key")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.BaseURL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "x-api-key", cfg.APIKeyHeader)
	assert.Equal(t, "echo", cfg.Reconcile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_BASE_API_URL", "http://localhost:8080")
	t.Setenv("TODO_BACKEND", "GoogleTasks")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, config.BackendGoogleTasks, cfg.Backend)
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("base_url = "), 0600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)

	assert.ErrorContains(t, cfg.Validate(), "base URL not configured")

	cfg.BaseURL = "http://localhost:8080"
	assert.NoError(t, cfg.Validate())

	cfg.Reconcile = "merge"
	assert.ErrorContains(t, cfg.Validate(), "unknown reconcile policy")

	cfg.Reconcile = "echo"
	cfg.Backend = "carrier-pigeon"
	assert.ErrorContains(t, cfg.Validate(), "unknown backend")

	cfg.Backend = config.BackendGoogleTasks
	cfg.BaseURL = ""
	assert.NoError(t, cfg.Validate())
}

func TestPaths(t *testing.T) {
	cfg, err := config.New("/tmp/todoctl-test")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/todoctl-test/config.toml", cfg.FilePath())
	assert.Equal(t, "/tmp/todoctl-test/todoctl.log", cfg.LogPath())
	assert.Equal(t, "/tmp/todoctl-test/oauth_client.json", cfg.OAuthClientPath())
	assert.Equal(t, "/tmp/todoctl-test/token.json", cfg.TokenPath())
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/todoctl", config.DefaultConfigDir())
}
