// Package observability bundles logger construction, Prometheus
// metrics, and the optional admin HTTP endpoint.
package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the console logger a binary passes into its
// components. Components never reach for global logging state.
func NewLogger(app string, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
}
