package evaluator

import "sort"

// TopStrategies ranks successful results by the chosen metric and returns
// the top n. For "max_drawdown" lower is better (ascending); every other
// metric (sharpe_ratio, total_return, win_rate) is ranked descending.
func TopStrategies(results []StrategyResult, metric string, n int) []StrategyResult {
	successful := make([]StrategyResult, 0, len(results))
	for _, r := range results {
		if r.Success {
			successful = append(successful, r)
		}
	}

	ascending := metric == "max_drawdown"
	sort.SliceStable(successful, func(i, j int) bool {
		vi, vj := metricValue(successful[i], metric), metricValue(successful[j], metric)
		if ascending {
			return vi < vj
		}
		return vi > vj
	})

	if n > 0 && n < len(successful) {
		successful = successful[:n]
	}
	return successful
}

func metricValue(r StrategyResult, metric string) float64 {
	switch metric {
	case "total_return":
		return r.Performance.TotalReturn
	case "max_drawdown":
		return r.Performance.MaxDrawdown
	case "win_rate":
		return r.Performance.WinRate
	case "calmar_ratio":
		return r.Performance.CalmarRatio
	default: // sharpe_ratio
		return r.Performance.SharpeRatio
	}
}
