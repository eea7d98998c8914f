package engine

import "time"

// BacktestConfig carries every tunable constant the simulator needs. Zero
// value is not meaningful; use NewConfig (or one of the preset
// constructors) to get spec-compliant defaults.
type BacktestConfig struct {
	InitialCapital   float64
	PositionSize     float64 // fraction of cash committed per buy, (0,1]
	MaxPositions     int
	CommissionRate   float64
	MinCommission    float64
	SlippageRate     float64
	StampTaxRate     float64
	StopLossPct      float64
	MinShares        int
	StartDate        *time.Time
	EndDate          *time.Time
	RiskFreeRate     float64 // annualized, used in Sharpe (0.03 in source)
	TradingDaysPerYr int     // 252
}

// Option mutates a BacktestConfig; used by NewConfig(opts...).
type Option func(*BacktestConfig)

func WithInitialCapital(v float64) Option { return func(c *BacktestConfig) { c.InitialCapital = v } }
func WithPositionSize(v float64) Option   { return func(c *BacktestConfig) { c.PositionSize = v } }
func WithCommissionRate(v float64) Option { return func(c *BacktestConfig) { c.CommissionRate = v } }
func WithMinCommission(v float64) Option  { return func(c *BacktestConfig) { c.MinCommission = v } }
func WithSlippageRate(v float64) Option   { return func(c *BacktestConfig) { c.SlippageRate = v } }
func WithStampTaxRate(v float64) Option   { return func(c *BacktestConfig) { c.StampTaxRate = v } }
func WithStopLossPct(v float64) Option    { return func(c *BacktestConfig) { c.StopLossPct = v } }
func WithMinShares(v int) Option          { return func(c *BacktestConfig) { c.MinShares = v } }
func WithStartDate(t time.Time) Option    { return func(c *BacktestConfig) { c.StartDate = &t } }
func WithEndDate(t time.Time) Option      { return func(c *BacktestConfig) { c.EndDate = &t } }

// NewConfig returns spec §4.4 defaults with the given overrides applied.
func NewConfig(opts ...Option) *BacktestConfig {
	c := &BacktestConfig{
		InitialCapital:   1_000_000,
		PositionSize:     1.0,
		MaxPositions:     1,
		CommissionRate:   3e-4,
		MinCommission:    5,
		SlippageRate:     1e-3,
		StampTaxRate:     1e-3,
		StopLossPct:      0.05,
		MinShares:        100,
		RiskFreeRate:     0.03,
		TradingDaysPerYr: 252,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConservativeConfig mirrors the source's conservative() preset: tighter
// stop-loss, half-sized positions, higher friction assumptions.
func ConservativeConfig() *BacktestConfig {
	c := NewConfig()
	c.PositionSize = 0.5
	c.StopLossPct = 0.03
	c.CommissionRate = 5e-4
	c.SlippageRate = 2e-3
	return c
}

// AggressiveConfig mirrors the source's aggressive() preset: full-sized
// positions, wider stop-loss tolerance.
func AggressiveConfig() *BacktestConfig {
	c := NewConfig()
	c.PositionSize = 1.0
	c.StopLossPct = 0.08
	c.CommissionRate = 2e-4
	c.SlippageRate = 5e-4
	return c
}

// OptimizationConfig mirrors the source's optimization() preset: tuned for
// many fast repeated runs. The Optimizer does not select it; evaluations use
// whatever config their Evaluator was constructed with.
func OptimizationConfig() *BacktestConfig {
	c := NewConfig()
	c.PositionSize = 0.8
	return c
}
