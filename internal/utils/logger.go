package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a new configured logger.
// Logs go to stderr so command output on stdout stays clean.
func NewLogger(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	// Parse log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}

	return zerolog.New(output).Level(logLevel).With().Timestamp().Logger()
}
