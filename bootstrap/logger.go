package bootstrap

import (
	"io"
	"time"

	"github.com/artpar/judegen/config"
	"github.com/rs/zerolog"
)

// SetupLogger builds the process logger from the logging section.
func SetupLogger(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(w).With().Timestamp().Logger()
}
