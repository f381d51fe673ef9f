package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/manabase/scrydex/pkg/constants"
)

// Config describes how the logger writes.
type Config struct {
	// Level is the minimum level to emit ("trace" through "fatal").
	Level string

	// Format selects the output encoding: "json", "console", or "auto",
	// which picks console on a terminal and JSON otherwise.
	Format string

	// Output names the destination: "stderr", "stdout", "discard", or a
	// file path, appended to.
	Output string

	// NoColor disables ANSI colors in console output.
	NoColor bool

	// AddCaller includes file:line on every event.
	AddCaller bool
}

// DefaultConfig returns the configuration the package starts with.
func DefaultConfig() *Config {
	return &Config{
		Level:   "info",
		Format:  "auto",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// Configure rebuilds the default logger from cfg. The CLI calls this once
// after flag parsing.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// NewLoggerFromConfig builds a logger per cfg, also updating the zerolog
// global level so child loggers created with New agree.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writerFor(cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

func writerFor(cfg *Config) io.Writer {
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard", "none":
		out = io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "console" || (format == "auto" && isTerminal()) {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	}
	return out
}

// parseLevel maps a level name to a zerolog level, defaulting to info on
// anything unrecognized.
func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}
