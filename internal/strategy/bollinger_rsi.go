package strategy

import (
	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/indicators"
)

// bandWidthLookback bounds how far back the band-width percentile rank
// looks; long enough to span a Bollinger squeeze/expansion cycle without
// dragging in the whole history.
const bandWidthLookback = 100

// BollingerRSI buys only when price is oversold on both bands (a squeeze
// near the lower band with weak RSI, confirmed by a recently tight band
// width) and sells on a plain upper-band touch.
type BollingerRSI struct{}

func (BollingerRSI) Name() string { return "bollinger_rsi" }

func (BollingerRSI) DefaultParams() Params {
	return Params{"bb_period": 20, "std_dev": 2.0, "rsi_period": 14, "oversold": 30}
}

func (BollingerRSI) ParamGrid() Grid {
	return Grid{
		"bb_period":  {15, 20, 25, 30},
		"std_dev":    {1.8, 2.0, 2.2, 2.5},
		"rsi_period": {9, 14, 21},
		"oversold":   {20, 25, 30, 35},
	}
}

func (BollingerRSI) RequiredIndicators() []string { return nil }

func (BollingerRSI) Signals(series *bar.Series, p Params) (buy, sell []bool) {
	close := series.Close()
	_, upper, lower := indicators.Bollinger(close, intParam(p, "bb_period", 20), floatParam(p, "std_dev", 2.0))
	rsi := indicators.RSI(close, intParam(p, "rsi_period", 14))
	oversold := floatParam(p, "oversold", 30)

	width := make([]float64, len(close))
	for i := range close {
		if isNaN(upper[i]) || isNaN(lower[i]) {
			width[i] = indicators.NaN
			continue
		}
		width[i] = upper[i] - lower[i]
	}
	pctRank := bandWidthPercentileRank(width, bandWidthLookback)

	n := len(close)
	buy = make([]bool, n)
	sell = make([]bool, n)
	for i := 0; i < n; i++ {
		if isNaN(upper[i]) || isNaN(lower[i]) || isNaN(rsi[i]) || isNaN(pctRank[i]) {
			continue
		}
		if close[i] <= lower[i] && rsi[i] < oversold && pctRank[i] <= 10 {
			buy[i] = true
		}
		if close[i] >= upper[i] {
			sell[i] = true
		}
	}
	return buy, sell
}

// bandWidthPercentileRank returns, for each index, the percentage of the
// trailing lookback window's values that are <= the current value.
func bandWidthPercentileRank(x []float64, lookback int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if isNaN(x[i]) {
			out[i] = indicators.NaN
			continue
		}
		lo := i - lookback + 1
		if lo < 0 {
			lo = 0
		}
		count, total := 0, 0
		for j := lo; j <= i; j++ {
			if isNaN(x[j]) {
				continue
			}
			total++
			if x[j] <= x[i] {
				count++
			}
		}
		if total == 0 {
			out[i] = indicators.NaN
			continue
		}
		out[i] = float64(count) / float64(total) * 100
	}
	return out
}
