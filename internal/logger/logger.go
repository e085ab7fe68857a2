package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the service logger. Development gets a human console writer,
// everything else logs JSON to stdout.
func New(environment string) zerolog.Logger {
	if environment == "development" {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
