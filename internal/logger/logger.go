package logger

import (
	"os"

	"clutch-tracker/internal/config"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the application logger at the level named by LOG_LEVEL.
// Unknown level names fall back to info.
func New(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)
}

var Module = fx.Provide(New)
