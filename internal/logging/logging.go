package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = New(os.Stderr)
}

// New builds a console logger writing to out.
func New(out io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}

// SetOutput replaces the package logger's writer.
func SetOutput(out io.Writer) {
	logger = New(out).Level(logger.GetLevel())
}

// SetLevel parses level ("debug", "info", ...) and applies it. Unknown
// values leave the level unchanged and return the parse error.
func SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		return nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return err
	}
	logger = logger.Level(lvl)
	return nil
}
