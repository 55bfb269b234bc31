// Package logging builds the zerolog loggers used across Brandly.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every log line.
const ServiceName = "brandly"

// New creates a timestamped zerolog.Logger writing to w (stderr when nil).
// Unparseable levels fall back to info.
func New(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := zerolog.New(w).With().Timestamp().Str("service", ServiceName).Logger()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl)
}
