package logging_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/config"
	"todoctl/internal/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, logging.ParseLevel("debug"))
	assert.Equal(t, log.WarnLevel, logging.ParseLevel("warn"))
	assert.Equal(t, log.ErrorLevel, logging.ParseLevel("error"))
	assert.Equal(t, log.InfoLevel, logging.ParseLevel("chatty"))
}

func TestParseFormatter(t *testing.T) {
	assert.Equal(t, log.JSONFormatter, logging.ParseFormatter("json"))
	assert.Equal(t, log.LogfmtFormatter, logging.ParseFormatter("logfmt"))
	assert.Equal(t, log.TextFormatter, logging.ParseFormatter(""))
}

func TestNew_DebugFlagOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "error", LogFormat: "text"}

	logging.New(&buf, cfg).Debug("hidden")
	assert.Empty(t, buf.String())

	cfg.Debug = true
	logging.New(&buf, cfg).Debug("shown", "id", "1")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "id=1")
	assert.Contains(t, buf.String(), logging.Prefix)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "info", LogFormat: "json"}

	logging.New(&buf, cfg).Info("hello", "count", 2)

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"count":2`)
}

func TestNewFile(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), LogLevel: "info"}

	logger, closeFn, err := logging.NewFile(cfg)
	require.NoError(t, err)
	logger.Info("to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(cfg.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
