package engine

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// calculatePerformance derives §4.4's fixed metric set from the completed
// equity curve and trade list. Called once at the end of Run.
func (e *Engine) calculatePerformance() Performance {
	p := Performance{InitialCapital: e.cfg.InitialCapital}
	if len(e.curve) == 0 {
		p.FinalCapital = e.cfg.InitialCapital
		return p
	}

	final := e.curve[len(e.curve)-1].Equity
	p.FinalCapital = final
	p.TotalReturn = (final/e.cfg.InitialCapital - 1) * 100

	years := yearsSpan(e.curve[0].Date, e.curve[len(e.curve)-1].Date)
	if final > 0 && e.cfg.InitialCapital > 0 {
		p.AnnualReturn = (math.Pow(final/e.cfg.InitialCapital, 1/years) - 1) * 100
	}

	returns := make([]float64, 0, len(e.curve))
	for _, pt := range e.curve {
		returns = append(returns, pt.PeriodReturn)
	}

	tradingDays := float64(e.cfg.TradingDaysPerYr)
	if len(returns) > 1 {
		mean := stat.Mean(returns, nil)
		sd := stat.StdDev(returns, nil)
		if sd > 0 {
			dailyRF := e.cfg.RiskFreeRate / tradingDays
			p.SharpeRatio = (mean - dailyRF) / sd * math.Sqrt(tradingDays)
			p.Volatility = sd * math.Sqrt(tradingDays) * 100
		}
	}

	p.MaxDrawdown = maxDrawdownPct(e.curve)
	if p.MaxDrawdown != 0 {
		p.CalmarRatio = p.AnnualReturn / p.MaxDrawdown
	}

	buys := 0
	stopLosses := 0
	profitableSells := 0
	var profits, losses []float64
	for _, t := range e.trades {
		switch t.Side {
		case SideBuy:
			buys++
		case SideSell:
			if t.Reason == ReasonStopLoss {
				stopLosses++
			}
			if t.RealizedPnL > 0 {
				profitableSells++
				profits = append(profits, t.RealizedPnL)
			} else if t.RealizedPnL < 0 {
				losses = append(losses, t.RealizedPnL)
			}
			p.TotalProfit += math.Max(t.RealizedPnL, 0)
			p.TotalLoss += math.Min(t.RealizedPnL, 0)
		}
	}

	p.TotalTrades = buys
	if buys > 0 {
		p.WinRate = float64(profitableSells) / float64(buys) * 100
		p.StopLossRate = float64(stopLosses) / float64(buys) * 100
	}
	p.StopLossCount = stopLosses

	switch {
	case len(losses) == 0 && len(profits) > 0:
		p.ProfitLossRatio = math.Inf(1)
	case len(profits) == 0:
		p.ProfitLossRatio = 0
	default:
		meanProfit := stat.Mean(profits, nil)
		meanLoss := math.Abs(stat.Mean(losses, nil))
		if meanLoss > 0 {
			p.ProfitLossRatio = meanProfit / meanLoss
		}
	}

	return p
}

func yearsSpan(start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	years := days / 365.25
	if years < 1.0/365 {
		return 1.0 / 365
	}
	return years
}

func maxDrawdownPct(curve []EquityPoint) float64 {
	runningMax := curve[0].Equity
	worst := 0.0
	for _, pt := range curve {
		if pt.Equity > runningMax {
			runningMax = pt.Equity
		}
		if runningMax == 0 {
			continue
		}
		dd := (pt.Equity - runningMax) / runningMax
		if dd < worst {
			worst = dd
		}
	}
	return math.Abs(worst) * 100
}
