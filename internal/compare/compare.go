// Package compare implements the Comparison Driver: run every registered
// strategy (or a requested subset) against one symbol, optimizing whatever
// has no saved best-params, then rank by Sharpe and emit a comparison
// table plus a per-day multi-strategy signal sheet (§4.7).
package compare

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ashare-backtester/internal/engine"
	"ashare-backtester/internal/evaluator"
	"ashare-backtester/internal/metrics"
	"ashare-backtester/internal/optimizer"
	"ashare-backtester/internal/strategy"
)

// Row is one ranked strategy in the comparison table.
type Row struct {
	Rank          int
	StrategyName  string
	Params        strategy.Params
	Performance   engine.Performance
	ExecutionTime time.Duration
}

// SignalRow is one date's multi-strategy action row.
type SignalRow struct {
	Date    time.Time
	Close   float64
	Actions map[string]string // strategy name -> "buy"/"sell"/""
}

// Report is the Comparison Driver's full output.
type Report struct {
	RunID      string
	Symbol     string
	Rows       []Row
	SignalRows []SignalRow
}

// Driver runs and ranks strategies for one symbol.
type Driver struct {
	Eval      *evaluator.Evaluator
	Optimizer *optimizer.Optimizer
}

// New constructs a comparison Driver.
func New(eval *evaluator.Evaluator, opt *optimizer.Optimizer) *Driver {
	return &Driver{Eval: eval, Optimizer: opt}
}

// Compare runs every name in strategyNames against symbol. bestParams may
// supply known-good params per strategy (e.g. read from a prior
// optimization's CSV via internal/report.ReadBestParams); strategies absent
// from it are optimized with maxEvaluations evaluations.
func (d *Driver) Compare(ctx context.Context, symbol string, strategyNames []string, bestParams map[string]strategy.Params, maxEvaluations int) (Report, error) {
	start := time.Now()
	defer func() { metrics.RecordCompareRun(time.Since(start).Seconds()) }()

	type outcome struct {
		name   string
		result evaluator.StrategyResult
		params strategy.Params
	}

	outcomes := make([]outcome, len(strategyNames))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range strategyNames {
		i, name := i, name
		g.Go(func() error {
			params := bestParams[name]
			if params == nil {
				optResult, err := d.Optimizer.Optimize(gctx, symbol, name, "sharpe_ratio", maxEvaluations)
				if err != nil {
					log.Warn().Err(err).Str("strategy", name).Msg("compare: optimization failed, skipping")
					return nil
				}
				params = optResult.BestParams
			}
			result, err := d.Eval.Evaluate(gctx, symbol, name, params)
			if err != nil {
				log.Warn().Err(err).Str("strategy", name).Msg("compare: evaluation failed, skipping")
				return nil
			}
			outcomes[i] = outcome{name: name, result: result, params: params}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	var rows []Row
	resultsByName := make(map[string]evaluator.StrategyResult)
	for _, o := range outcomes {
		if o.name == "" || !o.result.Success {
			continue
		}
		rows = append(rows, Row{
			StrategyName:  o.name,
			Params:        o.params,
			Performance:   o.result.Performance,
			ExecutionTime: o.result.ExecutionTime,
		})
		resultsByName[o.name] = o.result
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Performance.SharpeRatio > rows[j].Performance.SharpeRatio
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	signalRows := buildSignalSheet(resultsByName)

	return Report{
		RunID:      uuid.NewString(),
		Symbol:     symbol,
		Rows:       rows,
		SignalRows: signalRows,
	}, nil
}

// buildSignalSheet emits one row per date on which at least one strategy
// executed a buy or sell, with one column (as a map entry) per strategy.
func buildSignalSheet(results map[string]evaluator.StrategyResult) []SignalRow {
	byDate := make(map[time.Time]*SignalRow)

	for name, result := range results {
		for _, trade := range result.Trades {
			row, ok := byDate[trade.Date]
			if !ok {
				row = &SignalRow{Date: trade.Date, Close: trade.ReferencePrice, Actions: make(map[string]string)}
				byDate[trade.Date] = row
			}
			row.Actions[name] = string(trade.Side)
		}
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	rows := make([]SignalRow, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, *byDate[d])
	}
	return rows
}
