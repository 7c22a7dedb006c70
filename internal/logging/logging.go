// Package logging configures the process-wide zerolog logger from
// environment variables.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger from LOG_LEVEL/LOG_PRETTY.
func Init() {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var output io.Writer = os.Stdout
	if isPretty(os.Getenv("LOG_PRETTY")) {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// Writer returns the destination the httplog request-logging middleware
// should write JSON lines to.
func Writer() io.Writer {
	return os.Stdout
}

func isPretty(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
