// Package indicators implements the pure, stateless technical-indicator
// calculators consumed by the Data Manager and the strategy layer. Every
// function preserves input length on output; leading warm-up positions carry
// math.NaN() rather than a zero value, so downstream consumers never mistake
// "undefined" for "zero".
package indicators

import "math"

// NaN is the sentinel for "not yet computable" (insufficient warm-up data).
var NaN = math.NaN()

// CanonicalColumns is the full augmented-series column set the Data Manager
// ensures on every load, mirroring the source's _get_all_required_indicators
// (the default-period variant of every indicator). Strategies whose grid
// uses a non-default period recompute that one indicator directly rather
// than depending on a cached column here.
var CanonicalColumns = []string{
	"MA5", "MA10", "MA20", "MA30", "MA60", "MA120",
	"EMA12", "EMA26",
	"VOLUME_MA5", "VOLUME_MA10", "VOLUME_MA20",
	"RSI",
	"MACD_DIF", "MACD_DEA", "MACD_HIST",
	"DAILY_KDJ_K", "DAILY_KDJ_D", "DAILY_KDJ_J",
	"BOLL_UPPER", "BOLL_MIDDLE", "BOLL_LOWER",
	"ATR", "BBI", "CCI", "WR", "MTM", "OBV",
}

func isNaN(x float64) bool { return x != x }

// SMA computes the arithmetic mean over the trailing window of size n. A
// window containing a NaN input yields NaN.
func SMA(x []float64, n int) []float64 {
	out := make([]float64, len(x))
	if n <= 0 {
		for i := range out {
			out[i] = NaN
		}
		return out
	}
	sum := 0.0
	nans := 0
	for i, v := range x {
		if isNaN(v) {
			nans++
		} else {
			sum += v
		}
		if i >= n {
			if old := x[i-n]; isNaN(old) {
				nans--
			} else {
				sum -= old
			}
		}
		if i < n-1 || nans > 0 {
			out[i] = NaN
		} else {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// EMA computes the exponential moving average with alpha = 2/(n+1), seeded
// by ema[0] = x[0].
func EMA(x []float64, n int) []float64 {
	return emaAlpha(x, 2.0/(float64(n)+1.0))
}

func emaAlpha(x []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		prev := out[i-1]
		if isNaN(prev) {
			out[i] = x[i]
			continue
		}
		out[i] = alpha*x[i] + (1-alpha)*prev
	}
	return out
}

// RollingStdev computes the trailing-window sample (ddof=1) standard
// deviation used by Bollinger. min_periods=1: a single-point window
// yields stdev 0 rather than NaN, matching the source's rolling(..., min_periods=1).
func RollingStdev(x []float64, n int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		lo := i - n + 1
		if lo < 0 {
			lo = 0
		}
		window := x[lo : i+1]
		out[i] = stdev(window)
	}
	return out
}

func stdev(window []float64) float64 {
	if len(window) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))
	var ss float64
	for _, v := range window {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(window)-1))
}

func meanAbsDeviation(window []float64) float64 {
	if len(window) == 0 {
		return NaN
	}
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))
	mad := 0.0
	for _, v := range window {
		mad += math.Abs(v - mean)
	}
	return mad / float64(len(window))
}

func diff(x []float64) []float64 {
	out := make([]float64, len(x))
	out[0] = NaN
	for i := 1; i < len(x); i++ {
		out[i] = x[i] - x[i-1]
	}
	return out
}

// RSI computes the plain SMA-based relative strength index (not
// Wilder-smoothed): avg_up/avg_down are simple rolling means of the
// up/down moves, rs = avg_up/avg_down treating a zero denominator as +Inf.
func RSI(close []float64, n int) []float64 {
	d := diff(close)
	up := make([]float64, len(d))
	down := make([]float64, len(d))
	for i, v := range d {
		if isNaN(v) {
			up[i], down[i] = NaN, NaN
			continue
		}
		if v > 0 {
			up[i] = v
			down[i] = 0
		} else {
			up[i] = 0
			down[i] = -v
		}
	}
	avgUp := SMA(up, n)
	avgDown := SMA(down, n)
	out := make([]float64, len(close))
	for i := range out {
		if isNaN(avgUp[i]) || isNaN(avgDown[i]) {
			out[i] = NaN
			continue
		}
		if avgDown[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgUp[i] / avgDown[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACD returns DIF, DEA, HIST aligned to close.
func MACD(close []float64, fast, slow, signal int) (dif, dea, hist []float64) {
	emaFast := EMA(close, fast)
	emaSlow := EMA(close, slow)
	dif = make([]float64, len(close))
	for i := range dif {
		dif[i] = emaFast[i] - emaSlow[i]
	}
	dea = EMA(dif, signal)
	hist = make([]float64, len(close))
	for i := range hist {
		hist[i] = (dif[i] - dea[i]) * 2
	}
	return dif, dea, hist
}

func rollingMax(x []float64, n int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		lo := i - n + 1
		if lo < 0 {
			lo = 0
		}
		m := x[lo]
		for j := lo + 1; j <= i; j++ {
			if x[j] > m {
				m = x[j]
			}
		}
		out[i] = m
	}
	return out
}

func rollingMin(x []float64, n int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		lo := i - n + 1
		if lo < 0 {
			lo = 0
		}
		m := x[lo]
		for j := lo + 1; j <= i; j++ {
			if x[j] < m {
				m = x[j]
			}
		}
		out[i] = m
	}
	return out
}

// KDJ computes the daily stochastic K/D/J lines. Where the high/low range
// collapses to zero, rsv carries the previous bar's value forward (50 if no
// earlier bar had a usable range); K/D use EWM with
// alpha=1/m1, alpha=1/m2 respectively (adjust=False semantics); J is
// clipped to [-50, 150].
func KDJ(high, low, close []float64, n, m1, m2 int) (k, d, j []float64) {
	hh := rollingMax(high, n)
	ll := rollingMin(low, n)
	rsv := make([]float64, len(close))
	last := 50.0
	for i := range close {
		rng := hh[i] - ll[i]
		if rng == 0 {
			rsv[i] = last
		} else {
			rsv[i] = (close[i] - ll[i]) / rng * 100
			last = rsv[i]
		}
	}
	k = emaAlpha(rsv, 1.0/float64(m1))
	d = emaAlpha(k, 1.0/float64(m2))
	j = make([]float64, len(close))
	for i := range j {
		v := 3*k[i] - 2*d[i]
		if v < -50 {
			v = -50
		}
		if v > 150 {
			v = 150
		}
		j[i] = v
	}
	return k, d, j
}

// Bollinger returns middle (SMA), upper, lower bands.
func Bollinger(close []float64, n int, k float64) (middle, upper, lower []float64) {
	middle = SMA(close, n)
	std := RollingStdev(close, n)
	upper = make([]float64, len(close))
	lower = make([]float64, len(close))
	for i := range close {
		if isNaN(middle[i]) {
			upper[i], lower[i] = NaN, NaN
			continue
		}
		upper[i] = middle[i] + k*std[i]
		lower[i] = middle[i] - k*std[i]
	}
	return middle, upper, lower
}

// ATR computes the average true range as a plain SMA of the true range
// (not Wilder-smoothed).
func ATR(high, low, close []float64, n int) []float64 {
	tr := make([]float64, len(close))
	tr[0] = NaN
	for i := 1; i < len(close); i++ {
		a := high[i] - low[i]
		b := math.Abs(high[i] - close[i-1])
		c := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(a, math.Max(b, c))
	}
	return SMA(tr, n)
}

// CCI computes the commodity channel index using the rolling mean absolute
// deviation of the typical price.
func CCI(high, low, close []float64, n int) []float64 {
	typical := make([]float64, len(close))
	for i := range close {
		typical[i] = (high[i] + low[i] + close[i]) / 3
	}
	smaTyp := SMA(typical, n)
	out := make([]float64, len(close))
	for i := range close {
		if i < n-1 {
			out[i] = NaN
			continue
		}
		window := typical[i-n+1 : i+1]
		mad := meanAbsDeviation(window)
		if mad == 0 {
			out[i] = 0
			continue
		}
		out[i] = (typical[i] - smaTyp[i]) / (0.015 * mad)
	}
	return out
}

// BBI averages SMA3, SMA6, SMA12, SMA24.
func BBI(close []float64) []float64 {
	s3 := SMA(close, 3)
	s6 := SMA(close, 6)
	s12 := SMA(close, 12)
	s24 := SMA(close, 24)
	out := make([]float64, len(close))
	for i := range close {
		if isNaN(s3[i]) || isNaN(s6[i]) || isNaN(s12[i]) || isNaN(s24[i]) {
			out[i] = NaN
			continue
		}
		out[i] = (s3[i] + s6[i] + s12[i] + s24[i]) / 4
	}
	return out
}

// WilliamsR computes %R over a trailing window of n bars.
func WilliamsR(high, low, close []float64, n int) []float64 {
	hh := rollingMax(high, n)
	ll := rollingMin(low, n)
	out := make([]float64, len(close))
	for i := range close {
		if i < n-1 {
			out[i] = NaN
			continue
		}
		rng := hh[i] - ll[i]
		if rng == 0 {
			out[i] = 0
			continue
		}
		out[i] = (hh[i] - close[i]) / rng * -100
	}
	return out
}

// MTM computes close[i] - close[i-n].
func MTM(close []float64, n int) []float64 {
	out := make([]float64, len(close))
	for i := range close {
		if i < n {
			out[i] = NaN
			continue
		}
		out[i] = close[i] - close[i-n]
	}
	return out
}

// OBV computes the cumulative sum of sign(delta close) * volume.
func OBV(close, volume []float64) []float64 {
	out := make([]float64, len(close))
	if len(close) == 0 {
		return out
	}
	out[0] = 0
	for i := 1; i < len(close); i++ {
		switch {
		case close[i] > close[i-1]:
			out[i] = out[i-1] + volume[i]
		case close[i] < close[i-1]:
			out[i] = out[i-1] - volume[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}
