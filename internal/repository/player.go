package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clutch-tracker/internal/constants"
	"clutch-tracker/internal/domain"

	"github.com/rs/zerolog"
)

const directorySyncKey = "player_directory"

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const playerColumns = `player_id, full_name, first_season, last_season, is_active, last_fetch_at, created_at, updated_at`

func scanPlayer(row interface{ Scan(...any) error }) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(
		&p.PlayerID,
		&p.FullName,
		&p.FirstSeason,
		&p.LastSeason,
		&p.IsActive,
		&p.LastFetchAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) Get(ctx context.Context, playerID int64) (*domain.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE player_id = ?`
	return scanPlayer(r.db.QueryRowContext(ctx, query, playerID))
}

// GetByName resolves a display name case-insensitively. When several
// entries share a name the most recent career wins.
func (r *PlayerRepository) GetByName(ctx context.Context, fullName string) (*domain.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE full_name = ? COLLATE NOCASE
		ORDER BY last_season DESC
		LIMIT 1
	`
	return scanPlayer(r.db.QueryRowContext(ctx, query, fullName))
}

func (r *PlayerRepository) Search(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	searchPattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE full_name LIKE ? COLLATE NOCASE
		ORDER BY last_season DESC, full_name
		LIMIT ?
	`, searchPattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []domain.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (player_id, full_name, first_season, last_season, is_active, last_fetch_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET
			full_name = excluded.full_name,
			first_season = excluded.first_season,
			last_season = excluded.last_season,
			is_active = excluded.is_active,
			last_fetch_at = excluded.last_fetch_at,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < len(players); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(players) {
			end = len(players)
		}

		for _, player := range players[i:end] {
			_, err := stmt.ExecContext(ctx,
				player.PlayerID,
				player.FullName,
				player.FirstSeason,
				player.LastSeason,
				player.IsActive,
				player.LastFetchAt,
				player.CreatedAt,
				player.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert player %d: %w", player.PlayerID, err)
			}
		}
	}

	return tx.Commit()
}

// DirectoryShouldRefresh reports whether the full player directory is stale.
func (r *PlayerRepository) DirectoryShouldRefresh(ctx context.Context, ttl time.Duration) (bool, error) {
	var last time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT last_fetch_at FROM sync_state WHERE key = ?`, directorySyncKey,
	).Scan(&last)
	if err == sql.ErrNoRows {
		r.logger.Debug().Msg("player directory never synced, should refresh")
		return true, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to get directory sync state")
		return false, err
	}

	timeSince := time.Since(last)
	shouldRefresh := timeSince > ttl
	r.logger.Debug().
		Time("last_fetch_at", last).
		Dur("time_since", timeSince).
		Dur("ttl", ttl).
		Bool("should_refresh", shouldRefresh).
		Msg("checking if player directory should refresh")

	return shouldRefresh, nil
}

func (r *PlayerRepository) SetDirectorySynced(ctx context.Context, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_state (key, last_fetch_at) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET last_fetch_at = excluded.last_fetch_at
	`, directorySyncKey, at)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to set directory sync state")
		return err
	}
	return nil
}
