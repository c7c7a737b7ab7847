package domain

import (
	"time"
)

type Player struct {
	PlayerID    int64
	FullName    string
	FirstSeason int // start year of the player's first season, e.g. 2003 for 2003-04
	LastSeason  int
	IsActive    bool
	LastFetchAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GameRecord is one played game for one player. Shooting percentages are
// fractions in [0,1] and nil when the player took no attempts that game.
type GameRecord struct {
	ID            string // nanoid
	PlayerID      int64
	GameID        string
	Season        string // "2023-24"
	GameDate      time.Time
	Points        int
	FieldGoalPct  *float64
	FreeThrowPct  *float64
	PlusMinus     int
	Assists       int
	Rebounds      int
	Steals        int
	Blocks        int
	Turnovers     int
	MinutesPlayed float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClutchTotals is one season's pre-aggregated clutch box score for one player,
// as the upstream clutch endpoint returns it (last 5 minutes, margin <= 5,
// regular season, totals per mode).
type ClutchTotals struct {
	PlayerID      int64
	Season        string
	GamesPlayed   int
	Minutes       float64
	Points        int
	FieldGoalPct  float64
	ThreePointPct float64
	FreeThrowPct  float64
	PlusMinus     float64
	Assists       int
	Rebounds      int
	Steals        int
	Blocks        int
	Turnovers     int
	LastFetchAt   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
