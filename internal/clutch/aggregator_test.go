package clutch_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"clutch-tracker/internal/clutch"
	"clutch-tracker/internal/domain"
)

func fraction(f float64) *float64 {
	return &f
}

func TestAggregateGamesPartitionsByFinalMargin(t *testing.T) {
	games := []domain.GameRecord{
		{GameID: "a", Points: 10, PlusMinus: 3},
		{GameID: "b", Points: 20, PlusMinus: -2},
		{GameID: "c", Points: 5, PlusMinus: 10},
	}

	got, err := clutch.AggregateGames(games)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Strategy != clutch.StrategyFinalMargin {
		t.Errorf("strategy = %q, want %q", got.Strategy, clutch.StrategyFinalMargin)
	}
	if got.GamesPlayed != 2 {
		t.Errorf("games played = %d, want 2", got.GamesPlayed)
	}
	if got.TotalGames != 3 {
		t.Errorf("total games = %d, want 3", got.TotalGames)
	}
	if got.ClutchGamePct != 66.7 {
		t.Errorf("clutch game pct = %v, want 66.7", got.ClutchGamePct)
	}
	if got.PointsPerGame != 15.0 {
		t.Errorf("points per game = %v, want 15.0", got.PointsPerGame)
	}
	if got.PlusMinus != 0.5 {
		t.Errorf("plus minus = %v, want 0.5", got.PlusMinus)
	}
	if got.WinPct != 50.0 {
		t.Errorf("win pct = %v, want 50.0", got.WinPct)
	}
	if got.TotalPoints != 30 {
		t.Errorf("total points = %d, want 30", got.TotalPoints)
	}
}

func TestAggregateGamesMeanOfRatios(t *testing.T) {
	// Three clutch games whose field goal fractions average to exactly 1/3,
	// and a free throw fraction that two games define and one does not.
	// Undefined fractions stay out of the mean entirely.
	games := []domain.GameRecord{
		{GameID: "a", PlusMinus: 1, FieldGoalPct: fraction(0), FreeThrowPct: fraction(0.5)},
		{GameID: "b", PlusMinus: 2, FieldGoalPct: fraction(0), FreeThrowPct: fraction(1)},
		{GameID: "c", PlusMinus: 3, FieldGoalPct: fraction(1), FreeThrowPct: nil},
	}

	got, err := clutch.AggregateGames(games)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.FieldGoalPct != 33.3 {
		t.Errorf("field goal pct = %v, want 33.3", got.FieldGoalPct)
	}
	if got.FreeThrowPct != 75.0 {
		t.Errorf("free throw pct = %v, want 75.0", got.FreeThrowPct)
	}
}

func TestAggregateGamesNoClutchGames(t *testing.T) {
	games := []domain.GameRecord{
		{GameID: "a", Points: 30, PlusMinus: 12},
		{GameID: "b", Points: 25, PlusMinus: -9},
	}

	got, err := clutch.AggregateGames(games)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.GamesPlayed != 0 {
		t.Errorf("games played = %d, want 0", got.GamesPlayed)
	}
	if got.TotalGames != 2 {
		t.Errorf("total games = %d, want 2", got.TotalGames)
	}
	if got.ClutchGamePct != 0 {
		t.Errorf("clutch game pct = %v, want 0", got.ClutchGamePct)
	}
	// Mean-based fields default to zero instead of dividing by zero.
	if got.PointsPerGame != 0 || got.PlusMinus != 0 || got.WinPct != 0 || got.TotalPoints != 0 {
		t.Errorf("mean fields not zero: %+v", got)
	}
}

func TestSummaryKeepsZeroRatesInJSON(t *testing.T) {
	games := []domain.GameRecord{
		{GameID: "a", Points: 30, PlusMinus: 12},
		{GameID: "b", Points: 25, PlusMinus: -9},
	}

	got, err := clutch.AggregateGames(games)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Zero rates are real results and must stay visible in the payload.
	for _, key := range []string{`"clutch_game_pct":0`, `"win_pct":0`, `"three_point_pct":0`} {
		if !strings.Contains(string(body), key) {
			t.Errorf("payload %s missing %s", body, key)
		}
	}
}

func TestAggregateGamesEmptyInputIsNoData(t *testing.T) {
	if _, err := clutch.AggregateGames(nil); !errors.Is(err, domain.ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}

func TestAggregateGamesRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		game domain.GameRecord
	}{
		{"negative points", domain.GameRecord{GameID: "a", Points: -1}},
		{"negative minutes", domain.GameRecord{GameID: "a", MinutesPlayed: -3}},
		{"fraction above one", domain.GameRecord{GameID: "a", FieldGoalPct: fraction(1.2)}},
		{"negative turnovers", domain.GameRecord{GameID: "a", Turnovers: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clutch.AggregateGames([]domain.GameRecord{tt.game})
			if !errors.Is(err, domain.ErrMalformedRecord) {
				t.Errorf("error = %v, want ErrMalformedRecord", err)
			}
		})
	}
}

func TestAggregateGamesIsIdempotent(t *testing.T) {
	games := []domain.GameRecord{
		{GameID: "a", Points: 17, PlusMinus: -4, Assists: 6, Rebounds: 8, MinutesPlayed: 33.5, FieldGoalPct: fraction(0.45)},
		{GameID: "b", Points: 22, PlusMinus: 5, Assists: 3, Rebounds: 4, MinutesPlayed: 29, FreeThrowPct: fraction(0.8)},
		{GameID: "c", Points: 9, PlusMinus: -11, Assists: 2, Rebounds: 1, MinutesPlayed: 18},
	}

	first, err := clutch.AggregateGames(games)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := clutch.AggregateGames(games)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("aggregation not idempotent: %+v vs %+v", first, second)
	}
}

func TestAggregateTotals(t *testing.T) {
	totals := domain.ClutchTotals{
		Season:        "2023-24",
		GamesPlayed:   4,
		Minutes:       100,
		Points:        58,
		FieldGoalPct:  0.512,
		ThreePointPct: 0.4,
		FreeThrowPct:  1.0 / 3.0,
		PlusMinus:     7,
		Assists:       21,
		Rebounds:      18,
		Steals:        5,
		Blocks:        2,
		Turnovers:     9,
	}

	got, err := clutch.AggregateTotals(totals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := clutch.Summary{
		Strategy:         clutch.StrategyClutchWindow,
		GamesPlayed:      4,
		MinutesPerGame:   25.0,
		PointsPerGame:    14.5,
		FieldGoalPct:     51.2,
		ThreePointPct:    40.0,
		FreeThrowPct:     33.3,
		PlusMinus:        7.0,
		TotalPoints:      58,
		AssistsPerGame:   5.3,
		ReboundsPerGame:  4.5,
		StealsPerGame:    1.3,
		BlocksPerGame:    0.5,
		TurnoversPerGame: 2.3,
	}
	if got != want {
		t.Errorf("summary mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestAggregateTotalsZeroGamesIsNoData(t *testing.T) {
	_, err := clutch.AggregateTotals(domain.ClutchTotals{Season: "1976-77", GamesPlayed: 0})
	if !errors.Is(err, domain.ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}

func TestAggregateTotalsRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		totals domain.ClutchTotals
	}{
		{"negative games played", domain.ClutchTotals{GamesPlayed: -1}},
		{"negative points", domain.ClutchTotals{GamesPlayed: 3, Points: -10}},
		{"percentage above one", domain.ClutchTotals{GamesPlayed: 3, FieldGoalPct: 1.5}},
		{"negative minutes", domain.ClutchTotals{GamesPlayed: 3, Minutes: -20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clutch.AggregateTotals(tt.totals)
			if !errors.Is(err, domain.ErrMalformedRecord) {
				t.Errorf("error = %v, want ErrMalformedRecord", err)
			}
		})
	}
}
