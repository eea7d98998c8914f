package strategy

import (
	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/indicators"
)

// KDJMACD buys when the daily J is oversold and MACD confirms an uptrend
// (positive histogram, DIF above DEA); sell is the mirror condition.
type KDJMACD struct{}

func (KDJMACD) Name() string { return "kdj_macd" }

func (KDJMACD) DefaultParams() Params {
	return Params{
		"j_oversold":   20,
		"j_overbought": 80,
		"macd_fast":    12,
		"macd_slow":    26,
		"macd_signal":  9,
	}
}

func (KDJMACD) ParamGrid() Grid {
	return Grid{
		"j_oversold":   {10, 15, 20, 25, 30},
		"j_overbought": {70, 75, 80, 85, 90},
		"macd_fast":    {8, 10, 12, 15},
		"macd_slow":    {24, 26, 30, 35},
		"macd_signal":  {6, 9, 12},
	}
}

func (KDJMACD) RequiredIndicators() []string { return nil }

func (KDJMACD) Signals(series *bar.Series, p Params) (buy, sell []bool) {
	close, high, low := series.Close(), series.High(), series.Low()

	_, _, j := indicators.KDJ(high, low, close, 9, 3, 3)
	dif, dea, hist := indicators.MACD(close,
		intParam(p, "macd_fast", 12), intParam(p, "macd_slow", 26), intParam(p, "macd_signal", 9))

	oversold := floatParam(p, "j_oversold", 20)
	overbought := floatParam(p, "j_overbought", 80)

	n := len(close)
	buy = make([]bool, n)
	sell = make([]bool, n)
	for i := 0; i < n; i++ {
		if isNaN(j[i]) || isNaN(hist[i]) || isNaN(dif[i]) || isNaN(dea[i]) {
			continue
		}
		if j[i] < oversold && hist[i] > 0 && dif[i] > dea[i] {
			buy[i] = true
		}
		if j[i] > overbought && hist[i] < 0 && dif[i] < dea[i] {
			sell[i] = true
		}
	}
	return buy, sell
}
