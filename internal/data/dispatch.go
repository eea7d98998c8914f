package data

import (
	"strconv"
	"strings"

	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/indicators"
)

// ensureIndicator computes and installs a single requested column onto
// series if not already present, dispatching on the column name the way
// the source's _add_required_indicators pattern-matches column-name
// prefixes. MAk/EMAk/VOLUME_MAk are parsed structurally: the integer
// suffix yields the window (§4.2 item 4). Indicators that naturally
// produce several columns at once (MACD/KDJ/Bollinger) are computed
// together the first time any sibling column is requested.
func ensureIndicator(series *bar.Series, name string) {
	if series.Has(name) {
		return
	}
	close := series.Close()

	switch {
	case strings.HasPrefix(name, "VOLUME_MA"):
		if n, ok := suffixInt(name, "VOLUME_MA"); ok {
			series.Set(name, indicators.SMA(series.Volume(), n))
		}
		return
	case strings.HasPrefix(name, "MA"):
		// "MACD_*" also starts with "MA"; only a numeric suffix is an SMA
		// request, anything else falls through to the named dispatch below.
		if n, ok := suffixInt(name, "MA"); ok {
			series.Set(name, indicators.SMA(close, n))
			return
		}
	case strings.HasPrefix(name, "EMA"):
		if n, ok := suffixInt(name, "EMA"); ok {
			series.Set(name, indicators.EMA(close, n))
		}
		return
	}

	switch name {
	case "RSI":
		series.Set("RSI", indicators.RSI(close, 14))
	case "MACD_DIF", "MACD_DEA", "MACD_HIST":
		if series.Has("MACD_DIF") && series.Has("MACD_DEA") && series.Has("MACD_HIST") {
			return
		}
		dif, dea, hist := indicators.MACD(close, 12, 26, 9)
		series.Set("MACD_DIF", dif)
		series.Set("MACD_DEA", dea)
		series.Set("MACD_HIST", hist)
	case "DAILY_KDJ_K", "DAILY_KDJ_D", "DAILY_KDJ_J":
		if series.Has("DAILY_KDJ_K") && series.Has("DAILY_KDJ_D") && series.Has("DAILY_KDJ_J") {
			return
		}
		k, d, j := indicators.KDJ(series.High(), series.Low(), close, 9, 3, 3)
		series.Set("DAILY_KDJ_K", k)
		series.Set("DAILY_KDJ_D", d)
		series.Set("DAILY_KDJ_J", j)
	case "BOLL_UPPER", "BOLL_MIDDLE", "BOLL_LOWER":
		if series.Has("BOLL_UPPER") && series.Has("BOLL_MIDDLE") && series.Has("BOLL_LOWER") {
			return
		}
		middle, upper, lower := indicators.Bollinger(close, 20, 2)
		series.Set("BOLL_MIDDLE", middle)
		series.Set("BOLL_UPPER", upper)
		series.Set("BOLL_LOWER", lower)
	case "ATR":
		series.Set("ATR", indicators.ATR(series.High(), series.Low(), close, 14))
	case "BBI":
		series.Set("BBI", indicators.BBI(close))
	case "CCI":
		series.Set("CCI", indicators.CCI(series.High(), series.Low(), close, 20))
	case "WR":
		series.Set("WR", indicators.WilliamsR(series.High(), series.Low(), close, 14))
	case "MTM":
		series.Set("MTM", indicators.MTM(close, 12))
	case "OBV":
		series.Set("OBV", indicators.OBV(close, series.Volume()))
	}
}

// suffixInt parses the trailing integer window from a column name like
// "MA20" or "VOLUME_MA10" given its known prefix.
func suffixInt(name, prefix string) (int, bool) {
	rest := strings.TrimPrefix(name, prefix)
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// EnsureIndicators computes every column in required that series lacks.
func EnsureIndicators(series *bar.Series, required []string) {
	for _, name := range required {
		ensureIndicator(series, name)
	}
}
