package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the root logger. Cloud Logging parses the level from a
// "severity" field, so the level field is renamed accordingly.
func New(environment string) zerolog.Logger {
	zerolog.LevelFieldName = "severity"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if environment == "development" {
		// Human-readable output locally.
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	return logger
}
