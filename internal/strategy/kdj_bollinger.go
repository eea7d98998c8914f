package strategy

import (
	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/indicators"
)

// KDJBollinger buys when the daily J is oversold, close sits near the lower
// Bollinger band, and volume confirms with a breakout above its 5-day
// average; sell is the mirror condition against the upper band.
type KDJBollinger struct{}

func (KDJBollinger) Name() string { return "kdj_bollinger" }

func (KDJBollinger) DefaultParams() Params {
	return Params{
		"bb_period":         20,
		"bb_std":            2,
		"j_oversold":        20,
		"j_overbought":      80,
		"volume_multiplier": 1.5,
	}
}

func (KDJBollinger) ParamGrid() Grid {
	return Grid{
		"bb_period":         {15, 20, 25, 30},
		"bb_std":            {1.8, 2.0, 2.2, 2.5},
		"j_oversold":        {10, 15, 20, 25, 30},
		"j_overbought":      {70, 75, 80, 85, 90},
		"volume_multiplier": {1.2, 1.5, 2.0, 2.5},
	}
}

func (KDJBollinger) RequiredIndicators() []string { return nil }

func (KDJBollinger) Signals(series *bar.Series, p Params) (buy, sell []bool) {
	close, high, low, volume := series.Close(), series.High(), series.Low(), series.Volume()

	_, upper, lower := indicators.Bollinger(close, intParam(p, "bb_period", 20), floatParam(p, "bb_std", 2))
	_, _, j := indicators.KDJ(high, low, close, 9, 3, 3)
	volMA5 := indicators.SMA(volume, 5)

	oversold := floatParam(p, "j_oversold", 20)
	overbought := floatParam(p, "j_overbought", 80)
	multiplier := floatParam(p, "volume_multiplier", 1.5)

	n := len(close)
	buy = make([]bool, n)
	sell = make([]bool, n)
	for i := 0; i < n; i++ {
		if isNaN(upper[i]) || isNaN(lower[i]) || isNaN(j[i]) || isNaN(volMA5[i]) {
			continue
		}
		width := upper[i] - lower[i]
		volumeBreak := volume[i] > volMA5[i]*multiplier
		if j[i] < oversold && close[i] <= lower[i]+0.05*width && volumeBreak {
			buy[i] = true
		}
		if j[i] > overbought && close[i] >= upper[i]-0.05*width && volumeBreak {
			sell[i] = true
		}
	}
	return buy, sell
}
