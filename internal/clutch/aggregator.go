package clutch

import (
	"fmt"
	"math"

	"clutch-tracker/internal/constants"
	"clutch-tracker/internal/domain"
)

// Summary is the normalized per-player output consumed by the presentation
// layer. Percentages are 0-100, per-game rates are rounded to one decimal.
// TotalGames, ClutchGamePct and WinPct are only produced by the final-margin
// strategy; ThreePointPct only by the clutch-window strategy. The float
// fields stay in the JSON even at zero, since a zero rate is a real result
// and the Strategy field is what distinguishes the two shapes.
type Summary struct {
	Strategy         Strategy `json:"strategy"`
	GamesPlayed      int      `json:"games_played"`
	TotalGames       int      `json:"total_games,omitempty"`
	ClutchGamePct    float64  `json:"clutch_game_pct"`
	MinutesPerGame   float64  `json:"minutes_per_game"`
	PointsPerGame    float64  `json:"points_per_game"`
	FieldGoalPct     float64  `json:"field_goal_pct"`
	ThreePointPct    float64  `json:"three_point_pct"`
	FreeThrowPct     float64  `json:"free_throw_pct"`
	PlusMinus        float64  `json:"plus_minus"`
	WinPct           float64  `json:"win_pct"`
	TotalPoints      int      `json:"total_points"`
	AssistsPerGame   float64  `json:"assists_per_game"`
	ReboundsPerGame  float64  `json:"rebounds_per_game"`
	StealsPerGame    float64  `json:"steals_per_game"`
	BlocksPerGame    float64  `json:"blocks_per_game"`
	TurnoversPerGame float64  `json:"turnovers_per_game"`
}

// AggregateTotals builds a clutch-window summary from one season's
// pre-filtered totals record. A record with zero games played carries no
// information and maps to domain.ErrNoData; the caller owns the fallback to
// an earlier season before giving up.
func AggregateTotals(t domain.ClutchTotals) (Summary, error) {
	if err := validateTotals(t); err != nil {
		return Summary{}, err
	}
	if t.GamesPlayed == 0 {
		return Summary{}, fmt.Errorf("season %s: %w", t.Season, domain.ErrNoData)
	}

	gp := float64(t.GamesPlayed)
	return Summary{
		Strategy:         StrategyClutchWindow,
		GamesPlayed:      t.GamesPlayed,
		MinutesPerGame:   round1(t.Minutes / gp),
		PointsPerGame:    round1(float64(t.Points) / gp),
		FieldGoalPct:     round1(t.FieldGoalPct * 100),
		ThreePointPct:    round1(t.ThreePointPct * 100),
		FreeThrowPct:     round1(t.FreeThrowPct * 100),
		PlusMinus:        round1(t.PlusMinus),
		TotalPoints:      t.Points,
		AssistsPerGame:   round1(float64(t.Assists) / gp),
		ReboundsPerGame:  round1(float64(t.Rebounds) / gp),
		StealsPerGame:    round1(float64(t.Steals) / gp),
		BlocksPerGame:    round1(float64(t.Blocks) / gp),
		TurnoversPerGame: round1(float64(t.Turnovers) / gp),
	}, nil
}

// AggregateGames builds a final-margin summary from a player's full career
// game log. Order of the input is irrelevant. An empty input means no games
// were found at all and maps to domain.ErrNoData; a non-empty input with no
// clutch games is a valid summary whose mean-based fields default to zero.
func AggregateGames(games []domain.GameRecord) (Summary, error) {
	if len(games) == 0 {
		return Summary{}, fmt.Errorf("no games found: %w", domain.ErrNoData)
	}

	var clutchGames []domain.GameRecord
	for i, g := range games {
		if err := validateGame(g); err != nil {
			return Summary{}, fmt.Errorf("game %d (%s): %w", i, g.GameID, err)
		}
		if abs(g.PlusMinus) <= constants.ClutchMarginThreshold {
			clutchGames = append(clutchGames, g)
		}
	}

	s := Summary{
		Strategy:      StrategyFinalMargin,
		GamesPlayed:   len(clutchGames),
		TotalGames:    len(games),
		ClutchGamePct: round1(float64(len(clutchGames)) / float64(len(games)) * 100),
	}
	if len(clutchGames) == 0 {
		return s, nil
	}

	n := float64(len(clutchGames))
	var points, assists, rebounds, steals, blocks, turnovers, wins int
	var minutes, plusMinus float64
	var fgSum, ftSum float64
	var fgCount, ftCount int
	for _, g := range clutchGames {
		points += g.Points
		assists += g.Assists
		rebounds += g.Rebounds
		steals += g.Steals
		blocks += g.Blocks
		turnovers += g.Turnovers
		minutes += g.MinutesPlayed
		plusMinus += float64(g.PlusMinus)
		if g.PlusMinus > 0 {
			wins++
		}
		// Mean of per-game shooting fractions, not makes over attempts.
		// Statistically questionable but part of the metric's definition.
		// Games without a defined fraction (no attempts) stay out of the mean.
		if g.FieldGoalPct != nil {
			fgSum += *g.FieldGoalPct
			fgCount++
		}
		if g.FreeThrowPct != nil {
			ftSum += *g.FreeThrowPct
			ftCount++
		}
	}

	s.MinutesPerGame = round1(minutes / n)
	s.PointsPerGame = round1(float64(points) / n)
	s.FieldGoalPct = round1(meanPct(fgSum, fgCount))
	s.FreeThrowPct = round1(meanPct(ftSum, ftCount))
	s.PlusMinus = round1(plusMinus / n)
	s.WinPct = round1(float64(wins) / n * 100)
	s.TotalPoints = points
	s.AssistsPerGame = round1(float64(assists) / n)
	s.ReboundsPerGame = round1(float64(rebounds) / n)
	s.StealsPerGame = round1(float64(steals) / n)
	s.BlocksPerGame = round1(float64(blocks) / n)
	s.TurnoversPerGame = round1(float64(turnovers) / n)
	return s, nil
}

func validateTotals(t domain.ClutchTotals) error {
	switch {
	case t.GamesPlayed < 0:
		return fmt.Errorf("negative games played: %w", domain.ErrMalformedRecord)
	case t.Minutes < 0:
		return fmt.Errorf("negative minutes: %w", domain.ErrMalformedRecord)
	case t.Points < 0 || t.Assists < 0 || t.Rebounds < 0 || t.Steals < 0 || t.Blocks < 0 || t.Turnovers < 0:
		return fmt.Errorf("negative counting stat: %w", domain.ErrMalformedRecord)
	case !validFraction(t.FieldGoalPct) || !validFraction(t.ThreePointPct) || !validFraction(t.FreeThrowPct):
		return fmt.Errorf("shooting percentage outside [0,1]: %w", domain.ErrMalformedRecord)
	}
	return nil
}

func validateGame(g domain.GameRecord) error {
	switch {
	case g.Points < 0 || g.Assists < 0 || g.Rebounds < 0 || g.Steals < 0 || g.Blocks < 0 || g.Turnovers < 0:
		return fmt.Errorf("negative counting stat: %w", domain.ErrMalformedRecord)
	case g.MinutesPlayed < 0:
		return fmt.Errorf("negative minutes: %w", domain.ErrMalformedRecord)
	case g.FieldGoalPct != nil && !validFraction(*g.FieldGoalPct):
		return fmt.Errorf("field goal fraction outside [0,1]: %w", domain.ErrMalformedRecord)
	case g.FreeThrowPct != nil && !validFraction(*g.FreeThrowPct):
		return fmt.Errorf("free throw fraction outside [0,1]: %w", domain.ErrMalformedRecord)
	}
	return nil
}

func validFraction(f float64) bool {
	return f >= 0 && f <= 1
}

func meanPct(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
