package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"ashare-backtester/internal/engine"
)

// WriteTrades writes trades.csv, sorted descending by date.
func WriteTrades(path string, trades []engine.TradeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"date", "side", "reference_price", "exec_price", "shares", "gross",
		"commission", "stamp_tax", "realized_pnl", "realized_pnl_pct", "reason", "cost_basis",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	sorted := append([]engine.TradeRecord(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	for _, t := range sorted {
		record := []string{
			t.Date.Format("2006-01-02"),
			string(t.Side),
			strconv.FormatFloat(t.ReferencePrice, 'f', 2, 64),
			strconv.FormatFloat(t.ExecPrice, 'f', 2, 64),
			strconv.Itoa(t.Shares),
			strconv.FormatFloat(t.Gross, 'f', 2, 64),
			strconv.FormatFloat(t.Commission, 'f', 2, 64),
			strconv.FormatFloat(t.StampTax, 'f', 2, 64),
			strconv.FormatFloat(t.RealizedPnL, 'f', 2, 64),
			strconv.FormatFloat(t.RealizedPnLPct, 'f', 2, 64),
			string(t.Reason),
			strconv.FormatFloat(t.CostBasis, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteEquityCurve writes equity_curve.csv, sorted descending by date.
func WriteEquityCurve(path string, curve []engine.EquityPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "close", "cash", "shares", "equity", "period_return", "cost_basis", "unrealized_pnl"}
	if err := w.Write(header); err != nil {
		return err
	}

	sorted := append([]engine.EquityPoint(nil), curve...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	for _, p := range sorted {
		record := []string{
			p.Date.Format("2006-01-02"),
			strconv.FormatFloat(p.Close, 'f', 2, 64),
			strconv.FormatFloat(p.Cash, 'f', 2, 64),
			strconv.Itoa(p.Shares),
			strconv.FormatFloat(p.Equity, 'f', 2, 64),
			strconv.FormatFloat(p.PeriodReturn, 'f', 6, 64),
			strconv.FormatFloat(p.CostBasis, 'f', 2, 64),
			strconv.FormatFloat(p.UnrealizedPnL, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// performanceField describes one row of performance.csv: its Chinese
// display label and how to format the underlying metric.
type performanceField struct {
	label string
	kind  string // "percent", "ratio", "int", "currency"
	value func(engine.Performance) float64
}

var performanceFields = []performanceField{
	{"总收益率", "percent", func(p engine.Performance) float64 { return p.TotalReturn }},
	{"年化收益率", "percent", func(p engine.Performance) float64 { return p.AnnualReturn }},
	{"夏普比率", "ratio", func(p engine.Performance) float64 { return p.SharpeRatio }},
	{"卡玛比率", "ratio", func(p engine.Performance) float64 { return p.CalmarRatio }},
	{"最大回撤", "percent", func(p engine.Performance) float64 { return p.MaxDrawdown }},
	{"波动率", "percent", func(p engine.Performance) float64 { return p.Volatility }},
	{"总交易次数", "int", func(p engine.Performance) float64 { return float64(p.TotalTrades) }},
	{"胜率", "percent", func(p engine.Performance) float64 { return p.WinRate }},
	{"盈亏比", "ratio", func(p engine.Performance) float64 { return p.ProfitLossRatio }},
	{"止损次数", "int", func(p engine.Performance) float64 { return float64(p.StopLossCount) }},
	{"止损率", "percent", func(p engine.Performance) float64 { return p.StopLossRate }},
	{"初始资金", "currency", func(p engine.Performance) float64 { return p.InitialCapital }},
	{"最终资金", "currency", func(p engine.Performance) float64 { return p.FinalCapital }},
	{"总盈利", "currency", func(p engine.Performance) float64 { return p.TotalProfit }},
	{"总亏损", "currency", func(p engine.Performance) float64 { return p.TotalLoss }},
}

// WritePerformance writes performance.csv using the fixed Chinese-label
// mapping: percent metrics suffixed "%", ratios to 3 decimals, counts as
// integers, currency amounts with thousands separators.
func WritePerformance(path string, perf engine.Performance) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"指标", "数值"}); err != nil {
		return err
	}
	for _, field := range performanceFields {
		v := field.value(perf)
		var s string
		switch field.kind {
		case "percent":
			s = formatPercent(v)
		case "ratio":
			s = formatRatio3(v)
		case "int":
			s = strconv.FormatInt(int64(v), 10)
		case "currency":
			s = formatCurrency(v)
		}
		if err := w.Write([]string{field.label, s}); err != nil {
			return err
		}
	}
	return nil
}
