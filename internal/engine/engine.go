// Package engine implements the single-symbol walk-forward backtest
// simulator: a strict state machine over cash/position that consumes a
// bar series plus a pair of buy/sell signal sequences and emits trades, an
// equity curve, and derived performance statistics. It is deliberately
// single-threaded and deterministic — no goroutines, no I/O after the
// caller hands it data.
package engine

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"ashare-backtester/internal/bar"
)

// Engine holds the run state for a single backtest. Reset before each Run.
type Engine struct {
	cfg *BacktestConfig

	cash    float64
	shares  int
	avgCost float64

	trades []TradeRecord
	curve  []EquityPoint
}

// New constructs an Engine bound to the given configuration.
func New(cfg *BacktestConfig) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) reset() {
	e.cash = e.cfg.InitialCapital
	e.shares = 0
	e.avgCost = 0
	e.trades = nil
	e.curve = nil
}

// Run walks series bars in ascending order applying buy/sell signals under
// the configured cost model, and returns the completed trade list, equity
// curve, and derived performance. series, buy, and sell must be equal
// length; buy/sell are evaluated for bar i using only data available up to
// and including bar i (no look-ahead by construction, since this is a plain
// forward scan).
func (e *Engine) Run(series *bar.Series, buySignal, sellSignal []bool) ([]TradeRecord, []EquityPoint, Performance) {
	e.reset()

	bars := series.Bars
	start, end := dateBounds(bars, e.cfg.StartDate, e.cfg.EndDate)

	prevEquity := e.cfg.InitialCapital
	for i := start; i < end; i++ {
		b := bars[i]

		acted := false
		if e.shares > 0 {
			stopPrice := e.avgCost * (1 - e.cfg.StopLossPct)
			if b.Low <= stopPrice {
				execPrice := math.Max(stopPrice*(1-e.cfg.SlippageRate), b.Low)
				e.executeSell(b.Date, b.Close, execPrice, ReasonStopLoss)
				acted = true
			}
		}

		if !acted && e.shares > 0 && i < len(sellSignal) && sellSignal[i] {
			execPrice := b.Close * (1 - e.cfg.SlippageRate)
			e.executeSell(b.Date, b.Close, execPrice, ReasonSignal)
			acted = true
		}

		if !acted && e.shares == 0 && i < len(buySignal) && buySignal[i] {
			e.executeBuy(b.Date, b.Close)
		}

		equity := e.cash + float64(e.shares)*b.Close
		periodReturn := 0.0
		if prevEquity != 0 {
			periodReturn = equity/prevEquity - 1
		}
		point := EquityPoint{
			Date:         b.Date,
			Close:        b.Close,
			Cash:         e.cash,
			Shares:       e.shares,
			Equity:       equity,
			PeriodReturn: periodReturn,
		}
		if e.shares > 0 {
			point.CostBasis = e.avgCost
			point.UnrealizedPnL = float64(e.shares) * (b.Close - e.avgCost)
		}
		e.curve = append(e.curve, point)
		prevEquity = equity
	}

	perf := e.calculatePerformance()
	return e.trades, e.curve, perf
}

// dateBounds returns the [start, end) bar index range honoring the
// configured inclusive start/end date filter.
func dateBounds(bars []bar.Bar, start, end *time.Time) (int, int) {
	lo, hi := 0, len(bars)
	if start != nil {
		for lo < hi && bars[lo].Date.Before(*start) {
			lo++
		}
	}
	if end != nil {
		for hi > lo && bars[hi-1].Date.After(*end) {
			hi--
		}
	}
	return lo, hi
}

func (e *Engine) executeBuy(date time.Time, close float64) {
	budget := e.cash * e.cfg.PositionSize
	execPrice := close * (1 + e.cfg.SlippageRate)
	lots := math.Floor(budget / execPrice / float64(e.cfg.MinShares))
	shares := int(lots) * e.cfg.MinShares
	if shares < e.cfg.MinShares {
		return
	}
	gross := float64(shares) * execPrice
	commission := math.Max(gross*e.cfg.CommissionRate, e.cfg.MinCommission)
	if e.cash < gross+commission {
		return
	}

	e.cash -= gross + commission
	e.shares = shares
	e.avgCost = execPrice

	log.Debug().Float64("exec_price", execPrice).Int("shares", shares).Msg("engine: buy")

	e.trades = append(e.trades, TradeRecord{
		Date:           date,
		Side:           SideBuy,
		ReferencePrice: close,
		ExecPrice:      execPrice,
		Shares:         shares,
		Gross:          gross,
		Commission:     commission,
		Reason:         ReasonSignal,
	})
}

func (e *Engine) executeSell(date time.Time, close, execPrice float64, reason Reason) {
	gross := float64(e.shares) * execPrice
	commission := math.Max(gross*e.cfg.CommissionRate, e.cfg.MinCommission)
	stampTax := gross * e.cfg.StampTaxRate
	net := gross - commission - stampTax
	costBasis := e.avgCost
	costBasisTotal := float64(e.shares) * costBasis
	pnl := net - costBasisTotal
	pnlPct := 0.0
	if costBasisTotal != 0 {
		pnlPct = pnl / costBasisTotal * 100
	}

	log.Debug().Str("reason", string(reason)).Float64("exec_price", execPrice).
		Int("shares", e.shares).Float64("pnl", pnl).Msg("engine: sell")

	e.trades = append(e.trades, TradeRecord{
		Date:           date,
		Side:           SideSell,
		ReferencePrice: close,
		ExecPrice:      execPrice,
		Shares:         e.shares,
		Gross:          gross,
		Commission:     commission,
		StampTax:       stampTax,
		RealizedPnL:    pnl,
		RealizedPnLPct: pnlPct,
		Reason:         reason,
		CostBasis:      costBasis,
	})

	e.cash += net
	e.shares = 0
	e.avgCost = 0
}
