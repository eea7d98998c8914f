package strategy

import (
	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/indicators"
)

// KDJOversold trades on the weekly-resampled KDJ's J line: buy when the
// calendar week's J dips below an oversold threshold, sell above an
// overbought threshold.
type KDJOversold struct{}

func (KDJOversold) Name() string { return "kdj_oversold" }

func (KDJOversold) DefaultParams() Params {
	return Params{"j_oversold": 20, "j_overbought": 80}
}

func (KDJOversold) ParamGrid() Grid {
	return Grid{
		"j_oversold":   {0, 5, 10, 15, 20, 25, 30},
		"j_overbought": {75, 80, 85, 90, 95, 100},
	}
}

func (KDJOversold) RequiredIndicators() []string { return nil }

func (KDJOversold) Signals(series *bar.Series, p Params) (buy, sell []bool) {
	weekly := indicators.ResampleWeekly(series.Bars)
	wHigh := make([]float64, len(weekly))
	wLow := make([]float64, len(weekly))
	wClose := make([]float64, len(weekly))
	for i, b := range weekly {
		wHigh[i], wLow[i], wClose[i] = b.High, b.Low, b.Close
	}
	_, _, j := indicators.KDJ(wHigh, wLow, wClose, 9, 3, 3)
	dailyJ := indicators.WeeklyToDaily(series.Bars, weekly, j)

	oversold := floatParam(p, "j_oversold", 20)
	overbought := floatParam(p, "j_overbought", 80)

	n := len(series.Bars)
	buy = make([]bool, n)
	sell = make([]bool, n)
	for i := 0; i < n; i++ {
		v := dailyJ[i]
		if isNaN(v) {
			continue
		}
		if v < oversold {
			buy[i] = true
		}
		if v > overbought {
			sell[i] = true
		}
	}
	return buy, sell
}
