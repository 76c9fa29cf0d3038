package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. Development mode writes human readable console output.
func New(level string, development bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, development)
}

// NewWithWriter is New with an explicit destination
func NewWithWriter(w io.Writer, level string, development bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if development {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", "moviestore").
		Logger()
}

// ParseLevel converts a level name, falling back to info for unknown values
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// Nop returns a logger that discards everything
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
