package data

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/errs"
)

// candidateFiles mirrors the source's layered lookup under
// data/cleaned_stocks/<symbol>.csv, trying a couple of historical layouts
// before giving up.
func candidateFiles(dataDir, symbol string) []string {
	return []string{
		filepath.Join(dataDir, "cleaned_stocks", symbol+".csv"),
		filepath.Join(dataDir, symbol+".csv"),
		filepath.Join(dataDir, symbol, "daily.csv"),
	}
}

var knownDateColumns = []string{"date", "日期", "trade_date"}
var knownOHLCV = map[string][]string{
	"open":   {"open", "开盘"},
	"high":   {"high", "最高"},
	"low":    {"low", "最低"},
	"close":  {"close", "收盘"},
	"volume": {"volume", "成交量"},
}

// loadCSV reads a cleaned OHLCV CSV (plus any pre-existing indicator
// columns, honored and not recomputed) into a Series, sorted ascending by
// date.
func loadCSV(dataDir, symbol string) (*bar.Series, error) {
	path, ok := resolvePath(dataDir, symbol)
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, errs.DataNotFound)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, errs.DataNotFound)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: empty file: %w", symbol, errs.DataSchemaInvalid)
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}

	dateCol, ok := firstPresent(colIdx, knownDateColumns)
	if !ok {
		return nil, fmt.Errorf("%s: missing date column: %w", symbol, errs.DataSchemaInvalid)
	}
	fieldIdx := make(map[string]int, 5)
	for field, aliases := range knownOHLCV {
		idx, ok := firstPresent(colIdx, aliases)
		if !ok {
			return nil, fmt.Errorf("%s: missing %s column: %w", symbol, field, errs.DataSchemaInvalid)
		}
		fieldIdx[field] = idx
	}

	bars := make([]bar.Bar, 0, len(records)-1)
	extra := make(map[string][]float64)
	extraNames := extraColumnNames(header, dateCol, fieldIdx)
	for _, name := range extraNames {
		extra[name] = make([]float64, 0, len(records)-1)
	}

	for _, row := range records[1:] {
		if len(row) <= dateCol {
			continue
		}
		date, err := parseDate(row[dateCol])
		if err != nil {
			return nil, fmt.Errorf("%s: unparseable date %q: %w", symbol, row[dateCol], errs.DataSchemaInvalid)
		}
		b := bar.Bar{Date: date}
		b.Open, _ = strconv.ParseFloat(row[fieldIdx["open"]], 64)
		b.High, _ = strconv.ParseFloat(row[fieldIdx["high"]], 64)
		b.Low, _ = strconv.ParseFloat(row[fieldIdx["low"]], 64)
		b.Close, _ = strconv.ParseFloat(row[fieldIdx["close"]], 64)
		b.Volume, _ = strconv.ParseFloat(row[fieldIdx["volume"]], 64)
		bars = append(bars, b)

		for _, name := range extraNames {
			idx := colIdx[name]
			v := NaNIfEmpty(idx, row)
			extra[name] = append(extra[name], v)
		}
	}

	sortByDate(bars, extra)

	if !isAscending(bars) {
		return nil, fmt.Errorf("%s: dates not strictly ascending: %w", symbol, errs.DataSchemaInvalid)
	}

	series := bar.NewSeries(bars)
	for name, values := range extra {
		series.Set(name, values)
	}
	return series, nil
}

// resolvePath finds the first existing layout candidate for a symbol's
// source CSV under dataDir.
func resolvePath(dataDir, symbol string) (string, bool) {
	for _, candidate := range candidateFiles(dataDir, symbol) {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func firstPresent(colIdx map[string]int, names []string) (int, bool) {
	for _, n := range names {
		if idx, ok := colIdx[n]; ok {
			return idx, true
		}
	}
	return 0, false
}

func extraColumnNames(header []string, dateCol int, fieldIdx map[string]int) []string {
	used := map[int]bool{dateCol: true}
	for _, idx := range fieldIdx {
		used[idx] = true
	}
	var names []string
	for i, h := range header {
		if !used[i] {
			names = append(names, h)
		}
	}
	return names
}

func NaNIfEmpty(idx int, row []string) float64 {
	if idx >= len(row) || row[idx] == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(row[idx], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseDate(s string) (time.Time, error) {
	layouts := []string{"2006-01-02", "2006/01/02", time.RFC3339}
	var lastErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func sortByDate(bars []bar.Bar, extra map[string][]float64) {
	idx := make([]int, len(bars))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return bars[idx[i]].Date.Before(bars[idx[j]].Date) })

	sortedBars := make([]bar.Bar, len(bars))
	for i, j := range idx {
		sortedBars[i] = bars[j]
	}
	copy(bars, sortedBars)

	for name, values := range extra {
		sortedValues := make([]float64, len(values))
		for i, j := range idx {
			sortedValues[i] = values[j]
		}
		copy(extra[name], sortedValues)
	}
}

func isAscending(bars []bar.Bar) bool {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return false
		}
	}
	return true
}
