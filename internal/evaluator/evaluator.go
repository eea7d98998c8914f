// Package evaluator wires the Data Manager, Strategy Registry, and Engine
// together: given a (symbol, strategy, params) triple it loads data,
// instantiates the strategy, runs a single backtest, and reports a
// StrategyResult. Unknown strategies and invalid params are returned as
// errors; data-load failures and a panic inside the engine run are captured
// as success=false, so batch callers (Optimizer, Comparison Driver) can
// aggregate per-task outcomes.
package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ashare-backtester/internal/data"
	"ashare-backtester/internal/engine"
	"ashare-backtester/internal/errs"
	"ashare-backtester/internal/metrics"
	"ashare-backtester/internal/strategy"
)

// StrategyResult is the outcome of one single-strategy backtest.
type StrategyResult struct {
	Symbol        string
	StrategyName  string
	Params        strategy.Params
	Success       bool
	Performance   engine.Performance
	Trades        []engine.TradeRecord
	Equity        []engine.EquityPoint
	Error         string
	ExecutionTime time.Duration
}

// Evaluator glues the Data Manager and Strategy Registry to the Engine.
type Evaluator struct {
	Manager  *data.Manager
	Registry *strategy.Registry
	Config   *engine.BacktestConfig
}

// New constructs an Evaluator. cfg is the backtest configuration shared by
// every evaluation this Evaluator runs (commission, slippage, capital, ...).
func New(manager *data.Manager, registry *strategy.Registry, cfg *engine.BacktestConfig) *Evaluator {
	return &Evaluator{Manager: manager, Registry: registry, Config: cfg}
}

// Evaluate requests the strategy's required indicators from the Data
// Manager (which also ensures its full canonical column set on every load),
// runs the engine with the given params (or the strategy's defaults if
// params is nil), and returns a StrategyResult. Errors from strategy lookup
// and parameter validation are returned directly (the Optimizer is
// responsible for converting ParamsInvalid to a sentinel objective); a data
// load failure is returned as Success=false with Error set and a nil error.
func (e *Evaluator) Evaluate(ctx context.Context, symbol, strategyName string, params strategy.Params) (StrategyResult, error) {
	start := time.Now()
	result := StrategyResult{Symbol: symbol, StrategyName: strategyName, Params: params}

	strat, err := e.Registry.Get(strategyName)
	if err != nil {
		return result, err
	}
	if params == nil {
		params = strat.DefaultParams()
		result.Params = params
	}
	if v, ok := strat.(strategy.Validator); ok {
		if err := v.Validate(params); err != nil {
			return result, err
		}
	}

	series, err := e.Manager.Load(ctx, symbol, strat.RequiredIndicators())
	if err != nil {
		result.Error = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, nil
	}

	buy, sell := strat.Signals(series, params)

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Error = fmt.Errorf("%v: %w", r, errs.EvaluationFailed).Error()
			}
		}()
		eng := engine.New(e.Config)
		trades, curve, perf := eng.Run(series, buy, sell)
		result.Trades = trades
		result.Equity = curve
		result.Performance = perf
		result.Success = true
	}()

	result.ExecutionTime = time.Since(start)
	metrics.RecordEvaluation(strategyName, result.Success, result.ExecutionTime.Seconds())
	log.Debug().Str("symbol", symbol).Str("strategy", strategyName).
		Bool("success", result.Success).Dur("elapsed", result.ExecutionTime).Msg("evaluator: evaluation complete")
	return result, nil
}
