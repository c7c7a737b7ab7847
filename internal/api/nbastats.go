package api

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"clutch-tracker/internal/config"

	"github.com/valyala/fasthttp"
)

// StatsClient talks to the stats.nba.com API. The upstream rejects requests
// without browser-looking headers and throttles aggressive callers, so all
// requests go through a serialized minimum-interval gate.
type StatsClient struct {
	baseURL    string
	client     *fasthttp.Client
	throttleMu sync.Mutex
	interval   time.Duration
	lastReq    time.Time
}

func NewStatsClient(cfg *config.Config) *StatsClient {
	return &StatsClient{
		baseURL: cfg.StatsBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     8,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		interval: cfg.Throttle,
	}
}

func (c *StatsClient) throttle() {
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()

	if wait := c.interval - time.Since(c.lastReq); wait > 0 {
		time.Sleep(wait)
	}
	c.lastReq = time.Now()
}

type PlayerRow struct {
	PlayerID int64
	FullName string
	FromYear int
	ToYear   int
	IsActive bool
}

type GameLogRow struct {
	GameID       string
	Season       string
	GameDate     time.Time
	Points       int
	FieldGoalPct *float64
	FreeThrowPct *float64
	PlusMinus    int
	Assists      int
	Rebounds     int
	Steals       int
	Blocks       int
	Turnovers    int
	Minutes      float64
}

type ClutchTotalsRow struct {
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
}

// CommonAllPlayers fetches the full historical player directory.
func (c *StatsClient) CommonAllPlayers(ctx context.Context, currentSeason string) ([]PlayerRow, error) {
	u := fmt.Sprintf("%s/stats/commonallplayers?LeagueID=00&Season=%s&IsOnlyCurrentSeason=0",
		c.baseURL, url.QueryEscape(currentSeason))

	env, err := doRequest(ctx, c, u)
	if err != nil {
		return nil, err
	}

	rs, err := env.resultSet("CommonAllPlayers")
	if err != nil {
		return nil, err
	}

	players := make([]PlayerRow, 0, len(rs.RowSet))
	for i, raw := range rs.RowSet {
		row := rs.row(raw)
		player := PlayerRow{
			PlayerID: int64(row.float("PERSON_ID")),
			FullName: row.str("DISPLAY_FIRST_LAST"),
			FromYear: atoiSafe(row.str("FROM_YEAR")),
			ToYear:   atoiSafe(row.str("TO_YEAR")),
			IsActive: row.float("ROSTERSTATUS") == 1,
		}
		if err := row.err(); err != nil {
			return nil, fmt.Errorf("commonallplayers row %d: %w", i, err)
		}
		players = append(players, player)
	}
	return players, nil
}

// PlayerGameLog fetches one regular-season game log for one player.
func (c *StatsClient) PlayerGameLog(ctx context.Context, playerID int64, season string) ([]GameLogRow, error) {
	u := fmt.Sprintf("%s/stats/playergamelog?PlayerID=%d&Season=%s&SeasonType=Regular+Season",
		c.baseURL, playerID, url.QueryEscape(season))

	env, err := doRequest(ctx, c, u)
	if err != nil {
		return nil, err
	}

	rs, err := env.resultSet("PlayerGameLog")
	if err != nil {
		return nil, err
	}

	games := make([]GameLogRow, 0, len(rs.RowSet))
	for i, raw := range rs.RowSet {
		row := rs.row(raw)
		game := GameLogRow{
			GameID:       row.str("Game_ID"),
			Season:       season,
			GameDate:     row.date("GAME_DATE"),
			Points:       int(row.float("PTS")),
			FieldGoalPct: row.optFloat("FG_PCT"),
			FreeThrowPct: row.optFloat("FT_PCT"),
			PlusMinus:    int(row.float("PLUS_MINUS")),
			Assists:      int(row.float("AST")),
			Rebounds:     int(row.float("REB")),
			Steals:       int(row.float("STL")),
			Blocks:       int(row.float("BLK")),
			Turnovers:    int(row.float("TOV")),
			Minutes:      row.float("MIN"),
		}
		if err := row.err(); err != nil {
			return nil, fmt.Errorf("playergamelog row %d: %w", i, err)
		}
		games = append(games, game)
	}
	return games, nil
}

// ClutchPlayerTotals fetches one player's season totals restricted by the
// upstream to the last 5 minutes of games within 5 points. Returns nil when
// the result set is empty for the requested season.
func (c *StatsClient) ClutchPlayerTotals(ctx context.Context, playerID int64, season string) (*ClutchTotalsRow, error) {
	u := fmt.Sprintf("%s/stats/clutchplayerstats?PlayerID=%d&Season=%s&SeasonTypeAllStar=Regular+Season&PerModeSimple=Totals&ClutchTime=Last+5+Minutes&PointDiff=5",
		c.baseURL, playerID, url.QueryEscape(season))

	env, err := doRequest(ctx, c, u)
	if err != nil {
		return nil, err
	}

	rs, err := env.resultSet("ClutchPlayerStats")
	if err != nil {
		return nil, err
	}
	if len(rs.RowSet) == 0 {
		return nil, nil
	}

	row := rs.row(rs.RowSet[0])
	totals := ClutchTotalsRow{
		GamesPlayed:   int(row.float("GP")),
		Minutes:       row.float("MIN"),
		Points:        int(row.float("PTS")),
		FieldGoalPct:  row.float("FG_PCT"),
		ThreePointPct: row.float("FG3_PCT"),
		FreeThrowPct:  row.float("FT_PCT"),
		PlusMinus:     row.float("PLUS_MINUS"),
		Assists:       int(row.float("AST")),
		Rebounds:      int(row.float("REB")),
		Steals:        int(row.float("STL")),
		Blocks:        int(row.float("BLK")),
		Turnovers:     int(row.float("TOV")),
	}
	if err := row.err(); err != nil {
		return nil, fmt.Errorf("clutchplayerstats row: %w", err)
	}
	return &totals, nil
}

func doRequest(ctx context.Context, client *StatsClient, url string) (*resultSetsEnvelope, error) {
	client.throttle()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("stats API error: %d", resp.StatusCode())
	}

	return decodeEnvelope(resp.Body())
}
