package strategy

import (
	"fmt"

	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/errs"
	"ashare-backtester/internal/indicators"
)

// DualMA buys when the short moving average crosses above the long one and
// sells on the mirror cross below.
type DualMA struct{}

func (DualMA) Name() string { return "dual_ma" }

func (DualMA) DefaultParams() Params { return Params{"short": 10, "long": 30} }

func (DualMA) ParamGrid() Grid {
	return Grid{
		"short": {5, 10, 15, 20},
		"long":  {30, 40, 50, 60, 90, 120},
	}
}

func (DualMA) RequiredIndicators() []string { return nil }

func (DualMA) Validate(p Params) error {
	if intParam(p, "short", 10) >= intParam(p, "long", 30) {
		return fmt.Errorf("short must be < long: %w", errs.ParamsInvalid)
	}
	return nil
}

func (DualMA) Signals(series *bar.Series, p Params) (buy, sell []bool) {
	close := series.Close()
	shortMA := indicators.SMA(close, intParam(p, "short", 10))
	longMA := indicators.SMA(close, intParam(p, "long", 30))
	return crossAbove(shortMA, longMA), crossBelow(shortMA, longMA)
}
