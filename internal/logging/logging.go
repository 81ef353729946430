package logging

import (
	"io"
	"os"

	"github.com/a3tai/pcp-change-form/internal/config"
	"github.com/rs/zerolog"
)

// New builds the process logger for cfg.
//
// In stdio mode stdout carries the MCP protocol, so logs go to stderr and
// only when debug logging is enabled. Server mode logs JSON to stdout.
func New(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.IsStdioMode() {
		out = os.Stderr
		if !cfg.IsDebug() {
			out = io.Discard
		}
	}
	return NewWithWriter(cfg, out)
}

// NewWithWriter builds a logger for cfg that writes to out
func NewWithWriter(cfg *config.Config, out io.Writer) zerolog.Logger {
	if cfg.LogConsole {
		out = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Str("service", cfg.ServerName).
		Logger()
}

// ParseLevel maps a configured level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
