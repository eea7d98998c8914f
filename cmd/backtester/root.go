// Command backtester is the CLI entrypoint: backtest a single
// strategy/symbol pair, compare every canonical strategy on a symbol, or
// run Bayesian parameter optimization for one strategy.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ashare-backtester/internal/config"
	"ashare-backtester/internal/data"
	"ashare-backtester/internal/engine"
	"ashare-backtester/internal/evaluator"
	"ashare-backtester/internal/optimizer"
	"ashare-backtester/internal/strategy"
)

var settings config.Settings

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	settings = config.Load()
	if lvl, err := zerolog.ParseLevel(settings.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	root := &cobra.Command{
		Use:   "backtester",
		Short: "Daily-bar A-share strategy backtesting and comparison engine",
	}

	root.AddCommand(newBacktestCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newOptimizeCmd())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("backtester: fatal error")
	}
}

// newManager constructs the shared Data Manager using the resolved
// environment settings.
func newManager() (*data.Manager, error) {
	return data.NewManager(settings.DataDir, settings.CacheDBPath, settings.CacheCapacity)
}

func newRegistry() *strategy.Registry { return strategy.NewRegistry() }

func newEvaluator(mgr *data.Manager, reg *strategy.Registry) *evaluator.Evaluator {
	return evaluator.New(mgr, reg, engine.NewConfig())
}

func newOptimizer(eval *evaluator.Evaluator) *optimizer.Optimizer {
	return optimizer.New(eval)
}
