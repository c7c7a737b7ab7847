package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clutch-tracker/internal/api"
	"clutch-tracker/internal/clutch"
	"clutch-tracker/internal/config"
	"clutch-tracker/internal/constants"
	"clutch-tracker/internal/domain"
	"clutch-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ClutchService struct {
	stats       *api.StatsClient
	playerSvc   *PlayerService
	totalsRepo  *repository.ClutchTotalsRepository
	gameLogRepo *repository.GameLogRepository
	cfg         *config.Config
	logger      zerolog.Logger
}

func NewClutchService(
	stats *api.StatsClient,
	playerSvc *PlayerService,
	totalsRepo *repository.ClutchTotalsRepository,
	gameLogRepo *repository.GameLogRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *ClutchService {
	return &ClutchService{
		stats:       stats,
		playerSvc:   playerSvc,
		totalsRepo:  totalsRepo,
		gameLogRepo: gameLogRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

type PlayerSummary struct {
	PlayerID int64          `json:"player_id"`
	Name     string         `json:"name"`
	Summary  clutch.Summary `json:"summary"`
}

type ComparisonResult struct {
	Strategy clutch.Strategy   `json:"strategy"`
	Player1  PlayerSummary     `json:"player1"`
	Player2  PlayerSummary     `json:"player2"`
	Insights clutch.Comparison `json:"insights"`
}

// Compare resolves both names and computes both summaries under the given
// strategy. Either player failing aborts the whole comparison; no partial
// result is produced. The two computations run concurrently, the upstream
// throttle serializes whatever actually has to go over the wire.
func (s *ClutchService) Compare(ctx context.Context, name1, name2 string, strategy clutch.Strategy, refresh bool) (*ComparisonResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	p1, err := s.playerSvc.Resolve(ctx, name1)
	if err != nil {
		return nil, err
	}
	p2, err := s.playerSvc.Resolve(ctx, name2)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("player1", p1.FullName).
		Str("player2", p2.FullName).
		Str("strategy", string(strategy)).
		Bool("refresh", refresh).
		Msg("comparing players")

	var s1, s2 clutch.Summary
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		s1, err = s.Summarize(gCtx, p1, strategy, refresh)
		return err
	})
	g.Go(func() error {
		var err error
		s2, err = s.Summarize(gCtx, p2, strategy, refresh)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ComparisonResult{
		Strategy: strategy,
		Player1:  PlayerSummary{PlayerID: p1.PlayerID, Name: p1.FullName, Summary: s1},
		Player2:  PlayerSummary{PlayerID: p2.PlayerID, Name: p2.FullName, Summary: s2},
		Insights: clutch.Compare(p1.FullName, s1, p2.FullName, s2),
	}, nil
}

func (s *ClutchService) Summarize(ctx context.Context, player *domain.Player, strategy clutch.Strategy, refresh bool) (clutch.Summary, error) {
	switch strategy {
	case clutch.StrategyFinalMargin:
		return s.FinalMarginSummary(ctx, player, refresh)
	default:
		return s.ClutchWindowSummary(ctx, player, refresh)
	}
}

// ClutchWindowSummary aggregates the upstream's pre-filtered clutch totals
// for the current season, falling back to the first plus/minus season when
// the current one comes back empty (career players from earlier eras).
func (s *ClutchService) ClutchWindowSummary(ctx context.Context, player *domain.Player, refresh bool) (clutch.Summary, error) {
	seasons := []string{s.cfg.CurrentSeason, constants.FallbackSeason}
	for _, season := range seasons {
		totals, err := s.totalsForSeason(ctx, player, season, refresh)
		if err != nil {
			return clutch.Summary{}, err
		}
		if totals == nil {
			s.logger.Debug().Int64("player_id", player.PlayerID).Str("season", season).Msg("no clutch totals for season, trying fallback")
			continue
		}

		summary, err := clutch.AggregateTotals(*totals)
		if errors.Is(err, domain.ErrNoData) {
			continue
		}
		return summary, err
	}
	return clutch.Summary{}, fmt.Errorf("player %s: %w", player.FullName, domain.ErrNoData)
}

// totalsForSeason serves one player-season totals row from the cache when
// fresh, otherwise from the upstream. Empty upstream result sets are not
// cached and surface as nil.
func (s *ClutchService) totalsForSeason(ctx context.Context, player *domain.Player, season string, refresh bool) (*domain.ClutchTotals, error) {
	shouldRefresh, err := s.totalsRepo.ShouldRefresh(ctx, player.PlayerID, season, s.cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	if refresh {
		shouldRefresh = true
	}

	if !shouldRefresh {
		totals, err := s.totalsRepo.Get(ctx, player.PlayerID, season)
		if err == nil {
			s.logger.Debug().Int64("player_id", player.PlayerID).Str("season", season).Msg("returning cached clutch totals")
			return totals, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	row, err := s.stats.ClutchPlayerTotals(apiCtx, player.PlayerID, season)
	if err != nil {
		s.logger.Error().Err(err).Int64("player_id", player.PlayerID).Str("season", season).Msg("failed to fetch clutch totals")
		return nil, fmt.Errorf("failed to fetch clutch totals: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	now := time.Now()
	totals := &domain.ClutchTotals{
		PlayerID:      player.PlayerID,
		Season:        season,
		GamesPlayed:   row.GamesPlayed,
		Minutes:       row.Minutes,
		Points:        row.Points,
		FieldGoalPct:  row.FieldGoalPct,
		ThreePointPct: row.ThreePointPct,
		FreeThrowPct:  row.FreeThrowPct,
		PlusMinus:     row.PlusMinus,
		Assists:       row.Assists,
		Rebounds:      row.Rebounds,
		Steals:        row.Steals,
		Blocks:        row.Blocks,
		Turnovers:     row.Turnovers,
		LastFetchAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.totalsRepo.Upsert(ctx, totals); err != nil {
		s.logger.Error().Err(err).Int64("player_id", player.PlayerID).Str("season", season).Msg("failed to upsert clutch totals")
		return nil, fmt.Errorf("failed to upsert clutch totals: %w", err)
	}

	return totals, nil
}

// FinalMarginSummary aggregates the player's whole-game final-margin proxy
// over every season the player appeared in, clamped to the era plus/minus
// has been recorded. Completed seasons are fetched once and kept; only the
// current season ages out.
func (s *ClutchService) FinalMarginSummary(ctx context.Context, player *domain.Player, refresh bool) (clutch.Summary, error) {
	first, last := s.careerSeasonRange(player)

	for year := first; year <= last; year++ {
		season := seasonString(year)
		if err := s.ensureSeasonLogs(ctx, player, season, refresh); err != nil {
			return clutch.Summary{}, err
		}
	}

	games, err := s.gameLogRepo.GetByPlayer(ctx, player.PlayerID)
	if err != nil {
		return clutch.Summary{}, err
	}

	s.logger.Info().
		Int64("player_id", player.PlayerID).
		Int("game_count", len(games)).
		Int("first_season", first).
		Int("last_season", last).
		Msg("aggregating career game log")

	return clutch.AggregateGames(games)
}

func (s *ClutchService) ensureSeasonLogs(ctx context.Context, player *domain.Player, season string, refresh bool) error {
	last, err := s.gameLogRepo.SeasonLastFetch(ctx, player.PlayerID, season)
	if err != nil {
		return err
	}

	// Completed seasons never change; only never-fetched seasons and the
	// aging current season need another trip upstream.
	needsFetch := refresh || last.IsZero()
	if season == s.cfg.CurrentSeason && !last.IsZero() && time.Since(last) > constants.GameLogRefreshTTL {
		needsFetch = true
	}
	if !needsFetch {
		return nil
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	rows, err := s.stats.PlayerGameLog(apiCtx, player.PlayerID, season)
	if err != nil {
		s.logger.Error().Err(err).Int64("player_id", player.PlayerID).Str("season", season).Msg("failed to fetch game log")
		return fmt.Errorf("failed to fetch game log for %s: %w", season, err)
	}

	now := time.Now()
	records := make([]domain.GameRecord, len(rows))
	for i, row := range rows {
		records[i] = domain.GameRecord{
			PlayerID:      player.PlayerID,
			GameID:        row.GameID,
			Season:        row.Season,
			GameDate:      row.GameDate,
			Points:        row.Points,
			FieldGoalPct:  row.FieldGoalPct,
			FreeThrowPct:  row.FreeThrowPct,
			PlusMinus:     row.PlusMinus,
			Assists:       row.Assists,
			Rebounds:      row.Rebounds,
			Steals:        row.Steals,
			Blocks:        row.Blocks,
			Turnovers:     row.Turnovers,
			MinutesPlayed: row.Minutes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}

	if err := s.gameLogRepo.UpsertBatch(ctx, records); err != nil {
		return fmt.Errorf("failed to upsert game log for %s: %w", season, err)
	}
	return s.gameLogRepo.SetSeasonFetched(ctx, player.PlayerID, season, now)
}

func (s *ClutchService) careerSeasonRange(player *domain.Player) (int, int) {
	first := player.FirstSeason
	if first < constants.FirstPlusMinusSeason {
		first = constants.FirstPlusMinusSeason
	}

	current := seasonStartYear(s.cfg.CurrentSeason)
	last := player.LastSeason
	if last == 0 || last > current {
		last = current
	}
	if first > last {
		first = last
	}
	return first, last
}
