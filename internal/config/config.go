package config

import (
	"fmt"
	"os"
	"time"

	"clutch-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	StatsBaseURL  string
	DBPath        string
	ServerPort    string
	LogLevel      string
	CacheTTL      time.Duration
	CurrentSeason string
	Throttle      time.Duration
}

// Load reads configuration before the leveled application logger exists, so
// it logs through a plain bootstrap logger.
func Load() (*Config, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		StatsBaseURL:  getEnv("STATS_BASE_URL", "https://stats.nba.com"),
		DBPath:        getEnv("DB_PATH", "clutch.db"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CacheTTL:      getDurationEnv("CACHE_TTL", constants.TotalsRefreshTTL),
		CurrentSeason: getEnv("CURRENT_SEASON", constants.DefaultCurrentSeason),
		Throttle:      getDurationEnv("UPSTREAM_THROTTLE", constants.UpstreamThrottle),
	}

	if cfg.StatsBaseURL == "" {
		return nil, fmt.Errorf("STATS_BASE_URL must not be empty")
	}

	logger.Info().
		Str("stats_base_url", cfg.StatsBaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("current_season", cfg.CurrentSeason).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
