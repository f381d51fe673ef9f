// Package logging wraps zerolog for the scrydex library and CLI. It keeps a
// single process-wide default logger, readable console output when attached
// to a terminal, JSON everywhere else, and helpers for carrying a logger
// through a context with card-domain fields.
//
// Typical use:
//
//	logging.Info().Str("generation", gen).Int("records", n).Msg("Snapshot installed")
//
//	ctx = logging.WithCard(ctx, "Lightning Bolt")
//	logging.Ctx(ctx).Debug().Msg("Resolving name")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger zerolog.Logger

// Nop discards everything written to it.
var Nop = zerolog.Nop()

func init() {
	defaultLogger = NewLoggerFromConfig(configFromEnv())
}

// configFromEnv derives startup logging configuration from the environment,
// before any flag parsing has happened.
func configFromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	return cfg
}

// Default returns the process-wide default logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide default logger. zerolog's own global
// logger is kept in step so third-party code logging through it agrees.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a JSON logger writing to w at the current global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable logger on stderr.
func NewConsole() zerolog.Logger {
	return New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	})
}

// With starts a child context on the default logger.
func With() zerolog.Context {
	return defaultLogger.With()
}

// Debug starts a debug event on the default logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error event on the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// Err starts an event at error or info level depending on err being non-nil.
func Err(err error) *zerolog.Event {
	return defaultLogger.Err(err)
}

// isTerminal reports whether stderr is attached to a terminal.
func isTerminal() bool {
	info, err := os.Stderr.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
