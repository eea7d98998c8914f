package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ashare-backtester/internal/report"
	"ashare-backtester/internal/strategy"
)

func newBacktestCmd() *cobra.Command {
	var strategyName string
	var paramsFile string
	var outDir string

	cmd := &cobra.Command{
		Use:   "backtest <symbol>",
		Short: "Run a single strategy against one symbol and write trades/equity/performance CSVs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]

			mgr, err := newManager()
			if err != nil {
				return fmt.Errorf("opening data manager: %w", err)
			}
			defer mgr.Close()

			eval := newEvaluator(mgr, newRegistry())

			var params strategy.Params
			if paramsFile != "" {
				params, err = report.ReadBestParams(paramsFile)
				if err != nil {
					return fmt.Errorf("reading params file: %w", err)
				}
			}

			result, err := eval.Evaluate(cmd.Context(), symbol, strategyName, params)
			if err != nil {
				return fmt.Errorf("evaluating %s/%s: %w", symbol, strategyName, err)
			}
			if !result.Success {
				return fmt.Errorf("backtest failed: %s", result.Error)
			}

			if outDir == "" {
				outDir = filepath.Join(settings.ReportDir, symbol, strategyName)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}

			if err := report.WriteTrades(filepath.Join(outDir, "trades.csv"), result.Trades); err != nil {
				return err
			}
			if err := report.WriteEquityCurve(filepath.Join(outDir, "equity_curve.csv"), result.Equity); err != nil {
				return err
			}
			if err := report.WritePerformance(filepath.Join(outDir, "performance.csv"), result.Performance); err != nil {
				return err
			}

			log.Info().Str("symbol", symbol).Str("strategy", strategyName).
				Str("out_dir", outDir).Float64("sharpe_ratio", result.Performance.SharpeRatio).
				Msg("backtest complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", "dual_ma", "strategy name (see registry)")
	cmd.Flags().StringVar(&paramsFile, "params-file", "", "optional CSV of param_name,value overriding defaults")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: <report-dir>/<symbol>/<strategy>)")
	return cmd
}
