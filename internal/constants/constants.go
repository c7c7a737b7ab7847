package constants

import "time"

const (
	PlayerRefreshTTL    = 1 * time.Hour
	TotalsRefreshTTL    = 1 * time.Hour
	GameLogRefreshTTL   = 1 * time.Hour
	DirectoryRefreshTTL = 24 * time.Hour
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 120 * time.Second
	UpstreamThrottle   = 1 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	SearchSuggestionLimit = 10
)

const (
	// Last 5 minutes, score within 5, as the upstream clutch filter defines it.
	ClutchTimeMinutes = 5
	ClutchPointDiff   = 5

	// Final-margin proxy: a whole game counts as clutch when |plus-minus| <= 5.
	ClutchMarginThreshold = 5

	// Plus/minus has only been recorded since the 1976-77 season, so career
	// game-log scans never reach further back than this.
	FirstPlusMinusSeason = 1976

	DefaultCurrentSeason = "2023-24"
	FallbackSeason       = "1976-77"
)
