// Package strategy implements the strategy registry: a name -> constructor
// table of StrategyDescriptors, each a pure function from an indicator-
// augmented bar series and a parameter assignment to a pair of aligned
// buy/sell signal sequences. This replaces the source's runtime
// attribute-injection on dynamically typed strategy objects with one
// concrete parameters struct per strategy plus a shared interface.
package strategy

import (
	"ashare-backtester/internal/bar"
)

// Params is a strategy parameter assignment; every canonical strategy's
// parameters are numeric (periods, thresholds, multipliers), so a flat
// float64 map covers the whole grid without per-strategy boxing.
type Params map[string]float64

// Grid maps a parameter name to its discrete candidate list, used by the
// Optimizer to construct its search space.
type Grid map[string][]float64

// Strategy is the common contract every canonical strategy implements.
type Strategy interface {
	Name() string
	DefaultParams() Params
	ParamGrid() Grid
	// RequiredIndicators lists the canonical augmented-series columns a
	// Data Manager load should ensure exist before Signals runs. Strategies
	// that need a non-default period recompute that indicator directly from
	// OHLCV inside Signals rather than depending on the cached column.
	RequiredIndicators() []string
	// Signals returns two boolean sequences aligned to series.Bars.
	// Missing indicator inputs (NaN) never produce true.
	Signals(series *bar.Series, p Params) (buy, sell []bool)
}

// Validator is implemented by strategies whose parameter grid contains
// combinations the Optimizer/Evaluator must reject (per spec's
// parameter-validity constraints). Strategies with no such constraint do
// not implement it.
type Validator interface {
	Validate(p Params) error
}

func isNaN(x float64) bool { return x != x }

// crossAbove reports, for each index i>0, whether a[i]>b[i] while
// a[i-1]<=b[i-1] (a "golden cross"). Index 0 is always false. NaN inputs
// never produce a cross.
func crossAbove(a, b []float64) []bool {
	out := make([]bool, len(a))
	for i := 1; i < len(a); i++ {
		if isNaN(a[i]) || isNaN(b[i]) || isNaN(a[i-1]) || isNaN(b[i-1]) {
			continue
		}
		out[i] = a[i] > b[i] && a[i-1] <= b[i-1]
	}
	return out
}

// crossBelow is the mirror of crossAbove (a "death cross").
func crossBelow(a, b []float64) []bool {
	out := make([]bool, len(a))
	for i := 1; i < len(a); i++ {
		if isNaN(a[i]) || isNaN(b[i]) || isNaN(a[i-1]) || isNaN(b[i-1]) {
			continue
		}
		out[i] = a[i] < b[i] && a[i-1] >= b[i-1]
	}
	return out
}

func intParam(p Params, key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

func floatParam(p Params, key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}
