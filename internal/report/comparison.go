package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"ashare-backtester/internal/compare"
)

// WriteComparisonTable writes strategy_comparison.csv with the exact
// column order and formatting rules from §6.
func WriteComparisonTable(path string, rows []compare.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"rank", "strategy_name", "params", "total_return", "annual_return",
		"sharpe_ratio", "calmar_ratio", "max_drawdown", "volatility",
		"total_trades", "win_rate", "profit_loss_ratio", "stop_loss_count",
		"stop_loss_rate", "initial_capital", "final_capital", "total_profit",
		"total_loss", "execution_time",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		p := row.Performance
		record := []string{
			strconv.Itoa(row.Rank),
			row.StrategyName,
			paramsAsList(row.Params),
			formatPercent(p.TotalReturn),
			formatPercent(p.AnnualReturn),
			formatRatio3(p.SharpeRatio),
			formatRatio3(p.CalmarRatio),
			formatPercent(p.MaxDrawdown),
			formatPercent(p.Volatility),
			strconv.Itoa(p.TotalTrades),
			formatDecimal(p.WinRate, 1),
			formatProfitLossRatio(p.ProfitLossRatio),
			strconv.Itoa(p.StopLossCount),
			formatPercent(p.StopLossRate),
			formatCurrency(p.InitialCapital),
			formatCurrency(p.FinalCapital),
			formatCurrency(p.TotalProfit),
			formatCurrency(p.TotalLoss),
			row.ExecutionTime.String(),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteTotalTrades writes total_trades.csv: date, close, one column per
// strategy holding "buy"/"sell"/"", sorted descending by date.
func WriteTotalTrades(path string, rows []compare.SignalRow, strategyNames []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	names := append([]string(nil), strategyNames...)
	sort.Strings(names)

	header := append([]string{"date", "close"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{row.Date.Format("2006-01-02"), strconv.FormatFloat(row.Close, 'f', 2, 64)}
		for _, name := range names {
			record = append(record, row.Actions[name])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func paramsAsList(p map[string]float64) string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	s := "["
	for i, name := range names {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%s", name, strconv.FormatFloat(p[name], 'g', -1, 64))
	}
	return s + "]"
}

func formatPercent(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + "%" }

func formatRatio3(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatDecimal(v float64, places int) string { return strconv.FormatFloat(v, 'f', places, 64) }

func formatProfitLossRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	frac := v - float64(whole)
	s := strconv.FormatInt(whole, 10)
	grouped := groupThousands(s)
	out := fmt.Sprintf("%s.%02d", grouped, int(math.Round(frac*100)))
	if neg {
		out = "-" + out
	}
	return out
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var parts []string
	for n > 3 {
		parts = append([]string{s[n-3:]}, parts...)
		s = s[:n-3]
		n = len(s)
	}
	parts = append([]string{s}, parts...)
	out := parts[0]
	for _, p := range parts[1:] {
		out += "," + p
	}
	return out
}
