// Package logger builds the charmbracelet/log logger of the command line tool.
package logger

import (
	"io"
	"os"
	"slices"

	charmlog "github.com/charmbracelet/log"
)

// Config configures the logger.
type Config struct {
	Level      string
	JSON       bool
	Output     io.Writer
	TimeFormat string
}

// DefaultConfig returns the default configuration.
// Logs go to stderr so that they never mix with the rendered lists.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// New creates a new logger.
func New(cfg *Config) *charmlog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level, err := charmlog.ParseLevel(cfg.Level)
	if err != nil {
		level = charmlog.InfoLevel
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           level,
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}
	return l
}

// ErrorReporter returns a function logging the errors it is called with as warnings.
// It is meant for the OnError hooks of the library types.
func ErrorReporter(l *charmlog.Logger, msg string, keyvals ...any) func(error) {
	return func(err error) {
		l.Warn(msg, append(slices.Clone(keyvals), "err", err)...)
	}
}
