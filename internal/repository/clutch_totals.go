package repository

import (
	"context"
	"database/sql"
	"time"

	"clutch-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type ClutchTotalsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewClutchTotalsRepository(sqlDB *sql.DB, logger zerolog.Logger) *ClutchTotalsRepository {
	return &ClutchTotalsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *ClutchTotalsRepository) Get(ctx context.Context, playerID int64, season string) (*domain.ClutchTotals, error) {
	var t domain.ClutchTotals
	err := r.db.QueryRowContext(ctx, `
		SELECT player_id, season, games_played, minutes, points, field_goal_pct, three_point_pct,
		       free_throw_pct, plus_minus, assists, rebounds, steals, blocks, turnovers,
		       last_fetch_at, created_at, updated_at
		FROM clutch_totals
		WHERE player_id = ? AND season = ?
	`, playerID, season).Scan(
		&t.PlayerID,
		&t.Season,
		&t.GamesPlayed,
		&t.Minutes,
		&t.Points,
		&t.FieldGoalPct,
		&t.ThreePointPct,
		&t.FreeThrowPct,
		&t.PlusMinus,
		&t.Assists,
		&t.Rebounds,
		&t.Steals,
		&t.Blocks,
		&t.Turnovers,
		&t.LastFetchAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ClutchTotalsRepository) Upsert(ctx context.Context, t *domain.ClutchTotals) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clutch_totals (player_id, season, games_played, minutes, points, field_goal_pct, three_point_pct,
		                           free_throw_pct, plus_minus, assists, rebounds, steals, blocks, turnovers,
		                           last_fetch_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id, season) DO UPDATE SET
			games_played = excluded.games_played,
			minutes = excluded.minutes,
			points = excluded.points,
			field_goal_pct = excluded.field_goal_pct,
			three_point_pct = excluded.three_point_pct,
			free_throw_pct = excluded.free_throw_pct,
			plus_minus = excluded.plus_minus,
			assists = excluded.assists,
			rebounds = excluded.rebounds,
			steals = excluded.steals,
			blocks = excluded.blocks,
			turnovers = excluded.turnovers,
			last_fetch_at = excluded.last_fetch_at,
			updated_at = excluded.updated_at
	`,
		t.PlayerID,
		t.Season,
		t.GamesPlayed,
		t.Minutes,
		t.Points,
		t.FieldGoalPct,
		t.ThreePointPct,
		t.FreeThrowPct,
		t.PlusMinus,
		t.Assists,
		t.Rebounds,
		t.Steals,
		t.Blocks,
		t.Turnovers,
		t.LastFetchAt,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

// ShouldRefresh reports whether a cached player-season totals row is stale.
func (r *ClutchTotalsRepository) ShouldRefresh(ctx context.Context, playerID int64, season string, ttl time.Duration) (bool, error) {
	var last time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT last_fetch_at FROM clutch_totals WHERE player_id = ? AND season = ?`,
		playerID, season,
	).Scan(&last)
	if err == sql.ErrNoRows {
		r.logger.Debug().Int64("player_id", playerID).Str("season", season).Msg("clutch totals not cached, should refresh")
		return true, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Int64("player_id", playerID).Str("season", season).Msg("failed to get clutch totals")
		return false, err
	}

	timeSince := time.Since(last)
	shouldRefresh := timeSince > ttl
	r.logger.Debug().
		Int64("player_id", playerID).
		Str("season", season).
		Time("last_fetch_at", last).
		Dur("time_since", timeSince).
		Dur("ttl", ttl).
		Bool("should_refresh", shouldRefresh).
		Msg("checking if clutch totals should refresh")

	return shouldRefresh, nil
}
