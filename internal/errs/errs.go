// Package errs defines the sentinel error kinds surfaced by the backtesting
// core. Callers compare with errors.Is; wrapping preserves the underlying
// detail via %w.
package errs

import "errors"

var (
	// DataNotFound means no cleaned OHLCV CSV exists for the requested symbol.
	DataNotFound = errors.New("data not found")

	// DataSchemaInvalid means the CSV is missing required OHLCV columns or
	// its dates are not strictly ascending.
	DataSchemaInvalid = errors.New("data schema invalid")

	// StrategyUnknown means the registry has no strategy under that name.
	StrategyUnknown = errors.New("strategy unknown")

	// ParamsInvalid means a parameter assignment violates a strategy's
	// validity constraints.
	ParamsInvalid = errors.New("params invalid")

	// EvaluationFailed wraps any unexpected failure during a single
	// evaluation (data load, strategy construction, or engine run).
	EvaluationFailed = errors.New("evaluation failed")
)
