package clutch_test

import (
	"testing"

	"clutch-tracker/internal/clutch"
)

func TestCompare(t *testing.T) {
	s1 := clutch.Summary{Strategy: clutch.StrategyFinalMargin, PointsPerGame: 18.4, PlusMinus: 1.2, WinPct: 55.0}
	s2 := clutch.Summary{Strategy: clutch.StrategyFinalMargin, PointsPerGame: 15.1, PlusMinus: 2.0, WinPct: 48.5}

	got := clutch.Compare("LeBron James", s1, "Kobe Bryant", s2)

	if got.BetterScorer != "LeBron James" {
		t.Errorf("better scorer = %q, want LeBron James", got.BetterScorer)
	}
	if got.PointsPerGameDiff != 3.3 {
		t.Errorf("ppg diff = %v, want 3.3", got.PointsPerGameDiff)
	}
	if got.BetterImpact != "Kobe Bryant" {
		t.Errorf("better impact = %q, want Kobe Bryant", got.BetterImpact)
	}
	if got.PlusMinusDiff != 0.8 {
		t.Errorf("plus minus diff = %v, want 0.8", got.PlusMinusDiff)
	}
	if got.BetterCloser != "LeBron James" {
		t.Errorf("better closer = %q, want LeBron James", got.BetterCloser)
	}
	if got.WinPctDiff != 6.5 {
		t.Errorf("win pct diff = %v, want 6.5", got.WinPctDiff)
	}
}

// Exact ties always label the second player, never the first; callers depend
// on the tie-break being deterministic.
func TestCompareTieGoesToSecondPlayer(t *testing.T) {
	s := clutch.Summary{Strategy: clutch.StrategyClutchWindow, PointsPerGame: 20.0, PlusMinus: 1.5}

	got := clutch.Compare("First Player", s, "Second Player", s)

	if got.BetterScorer != "Second Player" {
		t.Errorf("better scorer = %q, want Second Player", got.BetterScorer)
	}
	if got.BetterImpact != "Second Player" {
		t.Errorf("better impact = %q, want Second Player", got.BetterImpact)
	}
	if got.PointsPerGameDiff != 0 || got.PlusMinusDiff != 0 {
		t.Errorf("diffs = %v / %v, want 0 / 0", got.PointsPerGameDiff, got.PlusMinusDiff)
	}
}

// Win percentage is a final-margin metric; clutch-window summaries never
// produce a closer comparison.
func TestCompareSkipsWinPctForClutchWindow(t *testing.T) {
	s1 := clutch.Summary{Strategy: clutch.StrategyClutchWindow, PointsPerGame: 12.0}
	s2 := clutch.Summary{Strategy: clutch.StrategyClutchWindow, PointsPerGame: 10.0}

	got := clutch.Compare("A", s1, "B", s2)

	if got.BetterCloser != "" {
		t.Errorf("better closer = %q, want empty", got.BetterCloser)
	}
	if got.WinPctDiff != 0 {
		t.Errorf("win pct diff = %v, want 0", got.WinPctDiff)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    clutch.Strategy
		wantErr bool
	}{
		{"clutch-window", clutch.StrategyClutchWindow, false},
		{"final-margin", clutch.StrategyFinalMargin, false},
		{"", clutch.StrategyClutchWindow, false},
		{"whole-game", "", true},
	}

	for _, tt := range tests {
		got, err := clutch.ParseStrategy(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStrategy(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStrategy(%q): unexpected error %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
