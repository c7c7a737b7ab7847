package clutch

import "fmt"

// Strategy names one of the two clutch definitions. They measure different
// things from different inputs and are never reconciled into one metric:
// the clutch-window strategy trusts the upstream's time-and-score filter
// (last 5 minutes, margin within 5), while the final-margin strategy treats
// a whole game as clutch when its plus/minus landed within 5 either way.
type Strategy string

const (
	StrategyClutchWindow Strategy = "clutch-window"
	StrategyFinalMargin  Strategy = "final-margin"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyClutchWindow, StrategyFinalMargin:
		return Strategy(s), nil
	case "":
		return StrategyClutchWindow, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}
