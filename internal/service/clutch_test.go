package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clutch-tracker/internal/api"
	"clutch-tracker/internal/clutch"
	"clutch-tracker/internal/config"
	"clutch-tracker/internal/constants"
	"clutch-tracker/internal/database"
	"clutch-tracker/internal/domain"
	"clutch-tracker/internal/repository"
	"clutch-tracker/internal/service"

	"github.com/rs/zerolog"
)

// clutchStatsHandler serves the clutch totals endpoint with canned rowsets
// keyed by season, recording every season requested.
type clutchStatsHandler struct {
	rows    map[string]string
	seasons []string
}

func (h *clutchStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("Season")
	h.seasons = append(h.seasons, season)
	fmt.Fprintf(w, `{"resource":"clutchplayerstats","resultSets":[{"name":"ClutchPlayerStats","headers":["GP","MIN","PTS","FG_PCT","FG3_PCT","FT_PCT","PLUS_MINUS","AST","REB","STL","BLK","TOV"],"rowSet":[%s]}]}`, h.rows[season])
}

type clutchFixture struct {
	svc        *service.ClutchService
	players    *service.PlayerService
	playerRepo *repository.PlayerRepository
	totalsRepo *repository.ClutchTotalsRepository
}

func newClutchFixture(t *testing.T, baseURL string) *clutchFixture {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// A second pool connection would see a different empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.RunMigrations(db, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	cfg := &config.Config{
		StatsBaseURL:  baseURL,
		CurrentSeason: "2023-24",
		CacheTTL:      time.Hour,
	}
	stats := api.NewStatsClient(cfg)
	playerRepo := repository.NewPlayerRepository(db, zerolog.Nop())
	totalsRepo := repository.NewClutchTotalsRepository(db, zerolog.Nop())
	gameLogRepo := repository.NewGameLogRepository(db, zerolog.Nop())
	players := service.NewPlayerService(stats, playerRepo, cfg, zerolog.Nop())

	return &clutchFixture{
		svc:        service.NewClutchService(stats, players, totalsRepo, gameLogRepo, cfg, zerolog.Nop()),
		players:    players,
		playerRepo: playerRepo,
		totalsRepo: totalsRepo,
	}
}

func TestClutchWindowSummaryFallsBackToHistoricalSeason(t *testing.T) {
	handler := &clutchStatsHandler{rows: map[string]string{
		"2023-24": "",
		"1976-77": "[4,100.0,58,0.512,0.4,0.75,7.0,21,18,5,2,9]",
	}}
	ts := httptest.NewServer(handler)
	defer ts.Close()

	f := newClutchFixture(t, ts.URL)
	ctx := context.Background()
	player := &domain.Player{PlayerID: 77, FullName: "Walt Frazier"}

	got, err := f.svc.ClutchWindowSummary(ctx, player, false)
	if err != nil {
		t.Fatalf("ClutchWindowSummary: %v", err)
	}

	want := clutch.Summary{
		Strategy:         clutch.StrategyClutchWindow,
		GamesPlayed:      4,
		MinutesPerGame:   25.0,
		PointsPerGame:    14.5,
		FieldGoalPct:     51.2,
		ThreePointPct:    40.0,
		FreeThrowPct:     75.0,
		PlusMinus:        7,
		TotalPoints:      58,
		AssistsPerGame:   5.3,
		ReboundsPerGame:  4.5,
		StealsPerGame:    1.3,
		BlocksPerGame:    0.5,
		TurnoversPerGame: 2.3,
	}
	if got != want {
		t.Errorf("summary = %+v, want %+v", got, want)
	}

	if len(handler.seasons) != 2 || handler.seasons[0] != "2023-24" || handler.seasons[1] != constants.FallbackSeason {
		t.Errorf("requested seasons = %v, want [2023-24 %s]", handler.seasons, constants.FallbackSeason)
	}

	// The empty current season must not be cached; the fallback season must.
	if _, err := f.totalsRepo.Get(ctx, player.PlayerID, "2023-24"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("current season cache err = %v, want sql.ErrNoRows", err)
	}
	if _, err := f.totalsRepo.Get(ctx, player.PlayerID, constants.FallbackSeason); err != nil {
		t.Errorf("fallback season not cached: %v", err)
	}

	// The fallback season is served from the cache on the next call; only
	// the uncached empty season goes back to the upstream.
	again, err := f.svc.ClutchWindowSummary(ctx, player, false)
	if err != nil {
		t.Fatalf("second ClutchWindowSummary: %v", err)
	}
	if again != want {
		t.Errorf("second summary = %+v, want %+v", again, want)
	}
	if len(handler.seasons) != 3 {
		t.Errorf("upstream requests after second call = %d, want 3", len(handler.seasons))
	}
}

func TestClutchWindowSummaryNoDataAfterFallback(t *testing.T) {
	handler := &clutchStatsHandler{rows: map[string]string{
		"2023-24": "[0,0,0,0,0,0,0,0,0,0,0,0]",
		"1976-77": "",
	}}
	ts := httptest.NewServer(handler)
	defer ts.Close()

	f := newClutchFixture(t, ts.URL)
	ctx := context.Background()
	player := &domain.Player{PlayerID: 23, FullName: "Bench Warmer"}

	_, err := f.svc.ClutchWindowSummary(ctx, player, false)
	if !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("err = %v, want domain.ErrNoData", err)
	}

	if len(handler.seasons) != 2 {
		t.Errorf("requested seasons = %v, want both seasons tried", handler.seasons)
	}
	if _, err := f.totalsRepo.Get(ctx, player.PlayerID, constants.FallbackSeason); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("empty fallback season cache err = %v, want sql.ErrNoRows", err)
	}
}

func TestResolveMatchesNameLiterally(t *testing.T) {
	f := newClutchFixture(t, "http://127.0.0.1:0")
	ctx := context.Background()

	now := time.Now()
	err := f.playerRepo.UpsertBatch(ctx, []domain.Player{
		{PlayerID: 101, FullName: "Smush Parker", FirstSeason: 2002, LastSeason: 2007, LastFetchAt: now, CreatedAt: now, UpdatedAt: now},
	})
	if err != nil {
		t.Fatalf("failed to seed players: %v", err)
	}
	if err := f.playerRepo.SetDirectorySynced(ctx, now); err != nil {
		t.Fatalf("failed to mark directory synced: %v", err)
	}

	player, err := f.players.Resolve(ctx, "Smush Parker")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if player.PlayerID != 101 {
		t.Errorf("PlayerID = %d, want 101", player.PlayerID)
	}

	// Names are matched as given. A query-encoded form is a different,
	// unknown name, not an alias for the decoded one.
	for _, name := range []string{"Smush+Parker", "Smush%20Parker", "Smush %zz Parker"} {
		if _, err := f.players.Resolve(ctx, name); !errors.Is(err, domain.ErrPlayerNotFound) {
			t.Errorf("Resolve(%q) err = %v, want domain.ErrPlayerNotFound", name, err)
		}
	}
}
