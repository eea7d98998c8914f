package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	var maxEvaluations int
	var objective string
	var outDir string

	cmd := &cobra.Command{
		Use:   "optimize <symbol> <strategy>",
		Short: "Run Bayesian parameter search for one strategy on one symbol",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, strategyName := args[0], args[1]

			mgr, err := newManager()
			if err != nil {
				return fmt.Errorf("opening data manager: %w", err)
			}
			defer mgr.Close()

			eval := newEvaluator(mgr, newRegistry())
			opt := newOptimizer(eval)

			if maxEvaluations <= 0 {
				maxEvaluations = settings.OptimizerMaxEvals
			}
			if objective == "" {
				objective = settings.OptimizerObjective
			}

			result, err := opt.Optimize(cmd.Context(), symbol, strategyName, objective, maxEvaluations)
			if err != nil {
				return fmt.Errorf("optimizing %s/%s: %w", symbol, strategyName, err)
			}

			if outDir == "" {
				outDir = filepath.Join(settings.ReportDir, symbol, strategyName)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}

			if err := writeBestParams(filepath.Join(outDir, "best_params.csv"), result.BestParams); err != nil {
				return err
			}

			log.Info().Str("symbol", symbol).Str("strategy", strategyName).
				Str("run_id", result.RunID).Float64("best_objective", result.BestObjective).
				Int("total_evaluations", result.TotalEvaluations).Float64("success_rate", result.SuccessRate).
				Msg("optimization complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&maxEvaluations, "max-evaluations", 0, "objective function call budget (default from env)")
	cmd.Flags().StringVar(&objective, "objective", "", "objective metric: sharpe_ratio, total_return, max_drawdown (default from env)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: <report-dir>/<symbol>/<strategy>)")
	return cmd
}

func writeBestParams(path string, params map[string]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"param_name", "best_value"}); err != nil {
		return err
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.Write([]string{name, strconv.FormatFloat(params[name], 'f', -1, 64)}); err != nil {
			return err
		}
	}
	return nil
}
