// Package optimizer implements Bayesian (Gaussian-process) parameter
// search over a strategy's param grid, isolated behind a small Minimizer
// interface so the acquisition strategy (GP, random search, CMA-ES, ...)
// can be swapped without touching the Evaluator contract.
package optimizer

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"ashare-backtester/internal/engine"
	"ashare-backtester/internal/evaluator"
	"ashare-backtester/internal/metrics"
	"ashare-backtester/internal/strategy"
)

// sentinelScore is returned by the objective wrapper for invalid or failed
// evaluations, so the minimizer is strongly discouraged from that region
// without the search aborting.
const sentinelScore = 1000.0

// initialPoints is the random bootstrap size before GP-guided
// acquisition begins (skopt's n_initial_points=10 in the source).
const initialPoints = 10

// DimensionKind distinguishes how a param's candidate list is searched.
type DimensionKind int

const (
	Integer DimensionKind = iota
	Real
	Categorical
)

// Dimension describes one parameter's search space, derived from the
// strategy's grid by inspecting its candidate values (§4.6).
type Dimension struct {
	Name       string
	Kind       DimensionKind
	Low, High  float64
	Categories []float64
}

// BuildDimensions inspects a strategy's param grid and classifies each
// parameter: an all-integral candidate list becomes an Integer range, and
// any list containing a non-integral value becomes a Real range. Categorical
// is never produced here; Categories still records the candidate set.
func BuildDimensions(grid strategy.Grid) []Dimension {
	names := make([]string, 0, len(grid))
	for name := range grid {
		names = append(names, name)
	}
	sort.Strings(names)

	dims := make([]Dimension, 0, len(names))
	for _, name := range names {
		values := grid[name]
		if len(values) == 0 {
			continue
		}
		low, high := values[0], values[0]
		allIntegral := true
		for _, v := range values {
			if v < low {
				low = v
			}
			if v > high {
				high = v
			}
			if v != math.Trunc(v) {
				allIntegral = false
			}
		}
		kind := Real
		if allIntegral {
			kind = Integer
		}
		dims = append(dims, Dimension{Name: name, Kind: kind, Low: low, High: high, Categories: values})
	}
	return dims
}

// Evaluation is one (params, objective score) sample in the search history.
type Evaluation struct {
	Params    strategy.Params
	Objective float64
	Success   bool
}

// Result is the OptimizationResult data model (§3).
type Result struct {
	RunID                 string
	BestParams            strategy.Params
	BestObjective         float64
	BestResult            evaluator.StrategyResult
	AllResults            []evaluator.StrategyResult
	History               []Evaluation
	Duration              time.Duration
	TotalEvaluations      int
	SuccessfulEvaluations int
	SuccessRate           float64
	Method                string
	Objective             string
}

// Minimizer is the black-box-search abstraction the Optimizer drives.
// Implementations receive a function mapping a point in [0,1]^len(dims)
// (one coordinate per dimension, already normalized) to a scalar to
// MINIMIZE, and return every point they sampled plus its objective value.
type Minimizer interface {
	Minimize(nCalls int, dims []Dimension, objective func(point []float64) float64) []PointEval
}

// PointEval is one minimizer sample: a normalized point plus its value.
type PointEval struct {
	Point []float64
	Value float64
}

// Optimizer drives a Minimizer against an Evaluator.
type Optimizer struct {
	Eval      *evaluator.Evaluator
	Minimizer Minimizer
}

// New constructs an Optimizer using the GP-surrogate minimizer by default.
func New(eval *evaluator.Evaluator) *Optimizer {
	return &Optimizer{Eval: eval, Minimizer: NewGPMinimizer(42)}
}

// Optimize runs the search for one (symbol, strategy) pair.
func (o *Optimizer) Optimize(ctx context.Context, symbol, strategyName, objectiveName string, maxEvaluations int) (Result, error) {
	start := time.Now()

	strat, err := o.Eval.Registry.Get(strategyName)
	if err != nil {
		return Result{}, err
	}
	grid := strat.ParamGrid()
	dims := BuildDimensions(grid)

	nCalls := maxEvaluations
	if nCalls <= 0 {
		nCalls = initialPoints
	}

	var history []Evaluation
	var allResults []evaluator.StrategyResult
	bestObjective := math.Inf(1) // we minimize -rawObjective internally
	var bestParams strategy.Params
	var bestResult evaluator.StrategyResult

	objective := func(point []float64) float64 {
		metrics.RecordOptimizerEvaluation(strategyName)
		params := denormalize(dims, point)
		if v, ok := strat.(strategy.Validator); ok {
			if err := v.Validate(params); err != nil {
				history = append(history, Evaluation{Params: params, Objective: sentinelScore, Success: false})
				log.Debug().Str("strategy", strategyName).Msg("optimizer: params invalid, sentinel applied")
				return sentinelScore
			}
		}

		result, err := o.Eval.Evaluate(ctx, symbol, strategyName, params)
		if err != nil || !result.Success {
			history = append(history, Evaluation{Params: params, Objective: sentinelScore, Success: false})
			return sentinelScore
		}

		raw := rawObjective(objectiveName, result.Performance)
		if math.IsNaN(raw) || math.IsInf(raw, 0) {
			history = append(history, Evaluation{Params: params, Objective: sentinelScore, Success: false})
			return sentinelScore
		}

		allResults = append(allResults, result)
		negated := -raw
		history = append(history, Evaluation{Params: params, Objective: negated, Success: true})
		if negated < bestObjective {
			bestObjective = negated
			bestParams = params
			bestResult = result
		}
		return negated
	}

	if len(dims) == 0 {
		// No tunable params: single evaluation at defaults.
		objective(nil)
	} else {
		o.Minimizer.Minimize(nCalls, dims, objective)
	}

	successCount := 0
	for _, h := range history {
		if h.Success {
			successCount++
		}
	}

	res := Result{
		RunID:                 uuid.NewString(),
		BestParams:            bestParams,
		BestObjective:         rawObjective(objectiveName, bestResult.Performance),
		BestResult:            bestResult,
		AllResults:            allResults,
		History:               history,
		Duration:              time.Since(start),
		TotalEvaluations:      len(history),
		SuccessfulEvaluations: successCount,
		Method:                "bayesian",
		Objective:             objectiveName,
	}
	if res.TotalEvaluations > 0 {
		res.SuccessRate = float64(successCount) / float64(res.TotalEvaluations) * 100
	}
	if bestParams == nil {
		res.BestParams = strat.DefaultParams()
		res.BestObjective = 0
	}
	metrics.RecordOptimizerRun(strategyName, objectiveName, res.BestObjective, res.Duration.Seconds())
	return res, nil
}

// rawObjective maps the named objective to the scalar the Optimizer
// maximizes: sharpe_ratio (default), total_return (fractional), and
// max_drawdown (negated, so minimizing drawdown is still "maximize").
func rawObjective(name string, perf engine.Performance) float64 {
	switch name {
	case "total_return":
		return perf.TotalReturn / 100
	case "max_drawdown":
		return -perf.MaxDrawdown
	default:
		return perf.SharpeRatio
	}
}

func denormalize(dims []Dimension, point []float64) strategy.Params {
	if point == nil {
		return strategy.Params{}
	}
	params := make(strategy.Params, len(dims))
	for i, d := range dims {
		t := point[i]
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		switch d.Kind {
		case Categorical:
			idx := int(t * float64(len(d.Categories)))
			if idx >= len(d.Categories) {
				idx = len(d.Categories) - 1
			}
			params[d.Name] = d.Categories[idx]
		case Integer:
			v := math.Round(d.Low + t*(d.High-d.Low))
			params[d.Name] = v
		default:
			params[d.Name] = d.Low + t*(d.High-d.Low)
		}
	}
	return params
}
