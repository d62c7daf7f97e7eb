// Package logging builds the leveled logger used across todoctl.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"todoctl/internal/config"
)

// Prefix is prepended to every log line.
const Prefix = "todoctl"

// ParseLevel parses a level name. Unknown names fall back to info.
func ParseLevel(level string) log.Level {
	l, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// ParseFormatter parses a formatter name: json, logfmt or text.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// New returns a logger writing to w at the configured level.
// --debug overrides the configured level.
func New(w io.Writer, cfg *config.Config) *log.Logger {
	level := ParseLevel(cfg.LogLevel)
	if cfg.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       ParseFormatter(cfg.LogFormat),
		ReportTimestamp: cfg.LogFormat != "" && cfg.LogFormat != "text",
		Prefix:          Prefix,
	})
}

// NewFile returns a logger appending to the config dir's log file, for
// callers that own the terminal. The returned close function must be called.
func NewFile(cfg *config.Config) (*log.Logger, func() error, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, err
	}
	logger := New(f, cfg)
	logger.SetReportTimestamp(true)
	return logger, f.Close, nil
}
