package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clutch-tracker/internal/api"
	"clutch-tracker/internal/config"
	"clutch-tracker/internal/constants"
	"clutch-tracker/internal/domain"
	"clutch-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type PlayerService struct {
	stats  *api.StatsClient
	repo   *repository.PlayerRepository
	cfg    *config.Config
	logger zerolog.Logger
}

func NewPlayerService(stats *api.StatsClient, repo *repository.PlayerRepository, cfg *config.Config, logger zerolog.Logger) *PlayerService {
	return &PlayerService{stats: stats, repo: repo, cfg: cfg, logger: logger}
}

// Resolve maps a display name to a player. The name arrives already decoded
// by the router and is matched literally. A cache miss triggers a directory
// sync from the upstream unless the directory was synced recently; a miss
// against a fresh directory is a genuine unknown name.
func (s *PlayerService) Resolve(ctx context.Context, name string) (*domain.Player, error) {
	s.logger.Debug().Str("name", name).Msg("resolving player")

	player, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	shouldRefresh, err := s.repo.DirectoryShouldRefresh(ctx, constants.DirectoryRefreshTTL)
	if err != nil {
		return nil, err
	}
	if !shouldRefresh {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrPlayerNotFound)
	}

	if err := s.syncDirectory(ctx); err != nil {
		return nil, err
	}

	player, err = s.repo.GetByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrPlayerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return player, nil
}

func (s *PlayerService) Suggestions(ctx context.Context, query string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().Str("query", query).Msg("searching players")

	players, err := s.repo.Search(ctx, query, constants.SearchSuggestionLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to search players")
		return nil, err
	}

	s.logger.Info().Int("count", len(players)).Str("query", query).Msg("search completed")
	return players, nil
}

func (s *PlayerService) syncDirectory(ctx context.Context) error {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	s.logger.Info().Msg("syncing player directory from upstream")

	rows, err := s.stats.CommonAllPlayers(apiCtx, s.cfg.CurrentSeason)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch player directory")
		return fmt.Errorf("failed to fetch player directory: %w", err)
	}

	now := time.Now()
	players := make([]domain.Player, len(rows))
	for i, row := range rows {
		players[i] = domain.Player{
			PlayerID:    row.PlayerID,
			FullName:    row.FullName,
			FirstSeason: row.FromYear,
			LastSeason:  row.ToYear,
			IsActive:    row.IsActive,
			LastFetchAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	if err := s.repo.UpsertBatch(ctx, players); err != nil {
		s.logger.Error().Err(err).Msg("failed to upsert player directory")
		return fmt.Errorf("failed to upsert player directory: %w", err)
	}
	if err := s.repo.SetDirectorySynced(ctx, now); err != nil {
		return err
	}

	s.logger.Info().Int("count", len(players)).Msg("player directory synced")
	return nil
}
