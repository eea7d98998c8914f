package strategy

import (
	"fmt"

	"ashare-backtester/internal/errs"
)

// Registry is a name -> constructor table. Construction is cheap (every
// canonical strategy is a small stateless value), so Get returns a fresh
// instance rather than cloning a prototype.
type Registry struct {
	ctors map[string]func() Strategy
}

// NewRegistry builds a registry preloaded with the nine canonical
// strategies (spec §4.3).
func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[string]func() Strategy)}
	r.Register("dual_ma", func() Strategy { return &DualMA{} })
	r.Register("macd_trend", func() Strategy { return &MACDTrend{} })
	r.Register("kdj_oversold", func() Strategy { return &KDJOversold{} })
	r.Register("kdj_bollinger", func() Strategy { return &KDJBollinger{} })
	r.Register("kdj_macd", func() Strategy { return &KDJMACD{} })
	r.Register("rsi_reversal", func() Strategy { return &RSIReversal{} })
	r.Register("bollinger", func() Strategy { return &Bollinger{} })
	r.Register("volume_breakout", func() Strategy { return &VolumeBreakout{} })
	r.Register("bollinger_rsi", func() Strategy { return &BollingerRSI{} })
	return r
}

// Register installs (or replaces) a named constructor.
func (r *Registry) Register(name string, ctor func() Strategy) {
	r.ctors[name] = ctor
}

// Get returns a fresh instance of the named strategy, or StrategyUnknown.
func (r *Registry) Get(name string) (Strategy, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errs.StrategyUnknown)
	}
	return ctor(), nil
}

// Names returns every registered strategy name.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		out = append(out, name)
	}
	return out
}
