package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clutch-tracker/internal/constants"
	"clutch-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type GameLogRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewGameLogRepository(sqlDB *sql.DB, logger zerolog.Logger) *GameLogRepository {
	return &GameLogRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *GameLogRepository) GetByPlayer(ctx context.Context, playerID int64) ([]domain.GameRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, game_id, season, game_date, points, field_goal_pct, free_throw_pct,
		       plus_minus, assists, rebounds, steals, blocks, turnovers, minutes_played,
		       created_at, updated_at
		FROM game_logs
		WHERE player_id = ?
		ORDER BY game_date
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.GameRecord
	for rows.Next() {
		var g domain.GameRecord
		var fgPct, ftPct sql.NullFloat64
		err := rows.Scan(
			&g.ID,
			&g.PlayerID,
			&g.GameID,
			&g.Season,
			&g.GameDate,
			&g.Points,
			&fgPct,
			&ftPct,
			&g.PlusMinus,
			&g.Assists,
			&g.Rebounds,
			&g.Steals,
			&g.Blocks,
			&g.Turnovers,
			&g.MinutesPlayed,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if fgPct.Valid {
			v := fgPct.Float64
			g.FieldGoalPct = &v
		}
		if ftPct.Valid {
			v := ftPct.Float64
			g.FreeThrowPct = &v
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (r *GameLogRepository) UpsertBatch(ctx context.Context, records []domain.GameRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO game_logs (id, player_id, game_id, season, game_date, points, field_goal_pct, free_throw_pct,
		                       plus_minus, assists, rebounds, steals, blocks, turnovers, minutes_played,
		                       created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id, game_id) DO UPDATE SET
			season = excluded.season,
			game_date = excluded.game_date,
			points = excluded.points,
			field_goal_pct = excluded.field_goal_pct,
			free_throw_pct = excluded.free_throw_pct,
			plus_minus = excluded.plus_minus,
			assists = excluded.assists,
			rebounds = excluded.rebounds,
			steals = excluded.steals,
			blocks = excluded.blocks,
			turnovers = excluded.turnovers,
			minutes_played = excluded.minutes_played,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < len(records); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(records) {
			end = len(records)
		}

		for _, record := range records[i:end] {
			id := record.ID
			if id == "" {
				id, err = gonanoid.New()
				if err != nil {
					return fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}

			var fgPct, ftPct any
			if record.FieldGoalPct != nil {
				fgPct = *record.FieldGoalPct
			}
			if record.FreeThrowPct != nil {
				ftPct = *record.FreeThrowPct
			}

			_, err := stmt.ExecContext(ctx,
				id,
				record.PlayerID,
				record.GameID,
				record.Season,
				record.GameDate,
				record.Points,
				fgPct,
				ftPct,
				record.PlusMinus,
				record.Assists,
				record.Rebounds,
				record.Steals,
				record.Blocks,
				record.Turnovers,
				record.MinutesPlayed,
				record.CreatedAt,
				record.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert game log %s: %w", record.GameID, err)
			}
		}
	}

	return tx.Commit()
}

// SeasonLastFetch reports when one player-season log was last pulled from the
// upstream, zero time when it never was.
func (r *GameLogRepository) SeasonLastFetch(ctx context.Context, playerID int64, season string) (time.Time, error) {
	var last time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT last_fetch_at FROM sync_state WHERE key = ?`, seasonSyncKey(playerID, season),
	).Scan(&last)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return last, nil
}

func (r *GameLogRepository) SetSeasonFetched(ctx context.Context, playerID int64, season string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_state (key, last_fetch_at) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET last_fetch_at = excluded.last_fetch_at
	`, seasonSyncKey(playerID, season), at)
	if err != nil {
		r.logger.Error().Err(err).Int64("player_id", playerID).Str("season", season).Msg("failed to set season sync state")
		return err
	}
	return nil
}

func seasonSyncKey(playerID int64, season string) string {
	return fmt.Sprintf("game_logs:%d:%s", playerID, season)
}
