// Package report implements the CSV external interfaces named in §6: a
// tolerant best-params reader, and writers for strategy_comparison.csv,
// total_trades.csv, and the per-strategy trades/equity_curve/performance
// CSVs (the last using the source's fixed Chinese-label metric mapping).
// External I/O stays CSV per spec; only the internal augmented-series
// cache uses SQLite.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ashare-backtester/internal/strategy"
)

// ReadBestParams reads a two-column (param_name, best_value) CSV. Names
// containing "period", "window", or "length" are cast to integer even if
// the CSV stores them as integer-looking floats (e.g. "20.0"), matching
// the source's tolerant-cast rule.
func ReadBestParams(path string) (strategy.Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening best params %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading best params %s: %w", path, err)
	}

	params := make(strategy.Params)
	for _, row := range records {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || strings.EqualFold(name, "param_name") {
			continue
		}
		raw := strings.TrimSpace(row[1])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if forcesInteger(name) {
			v = float64(int(v))
		}
		params[name] = v
	}
	return params, nil
}

func forcesInteger(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "period") || strings.Contains(lower, "window") || strings.Contains(lower, "length")
}
