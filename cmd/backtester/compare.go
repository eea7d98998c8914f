package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ashare-backtester/internal/compare"
	"ashare-backtester/internal/report"
	"ashare-backtester/internal/strategy"
)

func newCompareCmd() *cobra.Command {
	var strategiesFlag string
	var maxEvaluations int
	var outDir string

	cmd := &cobra.Command{
		Use:   "compare <symbol>",
		Short: "Rank every canonical strategy (or a chosen subset) on one symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]

			mgr, err := newManager()
			if err != nil {
				return fmt.Errorf("opening data manager: %w", err)
			}
			defer mgr.Close()

			reg := newRegistry()
			eval := newEvaluator(mgr, reg)
			opt := newOptimizer(eval)
			driver := compare.New(eval, opt)

			names := reg.Names()
			if strategiesFlag != "" {
				names = strings.Split(strategiesFlag, ",")
				for i := range names {
					names[i] = strings.TrimSpace(names[i])
				}
			}

			if maxEvaluations <= 0 {
				maxEvaluations = settings.OptimizerMaxEvals
			}

			bestParams := loadSavedBestParams(symbol, names)

			result, err := driver.Compare(cmd.Context(), symbol, names, bestParams, maxEvaluations)
			if err != nil {
				return fmt.Errorf("comparing strategies for %s: %w", symbol, err)
			}

			if outDir == "" {
				outDir = filepath.Join(settings.ReportDir, symbol)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}

			if err := report.WriteComparisonTable(filepath.Join(outDir, "strategy_comparison.csv"), result.Rows); err != nil {
				return err
			}
			if err := report.WriteTotalTrades(filepath.Join(outDir, "total_trades.csv"), result.SignalRows, names); err != nil {
				return err
			}

			log.Info().Str("symbol", symbol).Int("strategies", len(names)).
				Str("out_dir", outDir).Msg("comparison complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&strategiesFlag, "strategies", "", "comma-separated strategy names (default: all registered)")
	cmd.Flags().IntVar(&maxEvaluations, "max-evaluations", 0, "optimizer budget per strategy lacking saved best params (default from env)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: <report-dir>/<symbol>)")
	return cmd
}

// loadSavedBestParams reads each strategy's best_params.csv left by a prior
// optimize run (<report-dir>/<symbol>/<strategy>/best_params.csv per §4.7
// step 1) so compare only re-optimizes strategies with no saved params yet.
func loadSavedBestParams(symbol string, names []string) map[string]strategy.Params {
	out := make(map[string]strategy.Params, len(names))
	for _, name := range names {
		path := filepath.Join(settings.ReportDir, symbol, name, "best_params.csv")
		params, err := report.ReadBestParams(path)
		if err != nil {
			continue
		}
		out[name] = params
	}
	return out
}
