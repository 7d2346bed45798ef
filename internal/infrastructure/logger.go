package infrastructure

import (
	"os"
	"strings"
	"time"

	"github.com/architeacher/svc-health-gate/internal/config"
	"github.com/rs/zerolog"
)

type (
	Logger struct {
		zerolog.Logger
	}
)

func New(cfg config.LoggingConfig) Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger

	switch strings.ToLower(cfg.Format) {
	case "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	default:
		logger = zerolog.New(os.Stderr)
	}

	return Logger{logger.Level(level).With().Timestamp().Logger()}
}

// NewTestLogger returns a logger that discards all output.
func NewTestLogger() Logger {
	return Logger{zerolog.Nop()}
}
