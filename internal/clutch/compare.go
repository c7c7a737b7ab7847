package clutch

// Comparison holds the derived side-by-side facts for two players. On exact
// ties every "better" label goes to the second player; the label comes from
// a strict greater-than test on the first player's value, so equality falls
// through to the second operand. Callers rely on this being deterministic.
type Comparison struct {
	BetterScorer      string  `json:"better_scorer"`
	PointsPerGameDiff float64 `json:"points_per_game_diff"`
	BetterImpact      string  `json:"better_impact"`
	PlusMinusDiff     float64 `json:"plus_minus_diff"`
	BetterCloser      string  `json:"better_closer,omitempty"`
	WinPctDiff        float64 `json:"win_pct_diff,omitempty"`
}

func Compare(name1 string, s1 Summary, name2 string, s2 Summary) Comparison {
	c := Comparison{
		BetterScorer:      pickBetter(name1, s1.PointsPerGame, name2, s2.PointsPerGame),
		PointsPerGameDiff: round1(absf(s1.PointsPerGame - s2.PointsPerGame)),
		BetterImpact:      pickBetter(name1, s1.PlusMinus, name2, s2.PlusMinus),
		PlusMinusDiff:     round1(absf(s1.PlusMinus - s2.PlusMinus)),
	}

	// Win percentage only exists under the final-margin strategy.
	if s1.Strategy == StrategyFinalMargin && s2.Strategy == StrategyFinalMargin {
		c.BetterCloser = pickBetter(name1, s1.WinPct, name2, s2.WinPct)
		c.WinPctDiff = round1(absf(s1.WinPct - s2.WinPct))
	}

	return c
}

func pickBetter(name1 string, v1 float64, name2 string, v2 float64) string {
	if v1 > v2 {
		return name1
	}
	return name2
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
