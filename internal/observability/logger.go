// Package observability owns the process logger, prometheus metrics, and the
// gin middleware that feeds them.
package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the process logger and installs it as the zerolog global.
// Logs go to stderr so stdout stays clean for replay and capture tooling.
func InitLogger(service string) zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("service", service).Logger()
	log.Logger = logger
	return logger
}
