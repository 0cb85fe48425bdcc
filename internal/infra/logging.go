// Package infra holds process-level wiring shared by the service mains.
package infra

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger for a service binary. LOG_LEVEL narrows
// output; unknown values fall back to info.
func NewLogger(service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
