package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns the service logger. Level names follow zerolog ("debug", "info",
// ...); unknown names fall back to info.
func New(env, level string) zerolog.Logger {
	return newWithWriter(os.Stderr, env, level)
}

// NewConsole returns a human-readable logger for the command-line tools.
func NewConsole() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

func newWithWriter(w io.Writer, env, level string) zerolog.Logger {
	// Cloud Logging parses "severity" as the log level.
	zerolog.LevelFieldName = "severity"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(w).With().Timestamp().Logger()
	if strings.EqualFold(env, "development") {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w})
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}
