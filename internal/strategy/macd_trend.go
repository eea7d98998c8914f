package strategy

import (
	"fmt"

	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/errs"
	"ashare-backtester/internal/indicators"
)

// MACDTrend buys when DIF crosses above DEA while DIF is already positive,
// and sells on the mirror condition below zero.
type MACDTrend struct{}

func (MACDTrend) Name() string { return "macd_trend" }

func (MACDTrend) DefaultParams() Params {
	return Params{"fast": 12, "slow": 26, "signal": 9}
}

func (MACDTrend) ParamGrid() Grid {
	return Grid{
		"fast":   {8, 10, 12, 15},
		"slow":   {24, 26, 30, 35},
		"signal": {6, 9, 12},
	}
}

func (MACDTrend) RequiredIndicators() []string { return nil }

func (MACDTrend) Validate(p Params) error {
	if intParam(p, "fast", 12) >= intParam(p, "slow", 26) {
		return fmt.Errorf("fast must be < slow: %w", errs.ParamsInvalid)
	}
	return nil
}

func (MACDTrend) Signals(series *bar.Series, p Params) (buy, sell []bool) {
	close := series.Close()
	dif, dea, _ := indicators.MACD(close, intParam(p, "fast", 12), intParam(p, "slow", 26), intParam(p, "signal", 9))
	up := crossAbove(dif, dea)
	down := crossBelow(dif, dea)
	buy = make([]bool, len(close))
	sell = make([]bool, len(close))
	for i := range close {
		if up[i] && dif[i] > 0 {
			buy[i] = true
		}
		if down[i] && dif[i] < 0 {
			sell[i] = true
		}
	}
	return buy, sell
}
