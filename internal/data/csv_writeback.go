package data

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"ashare-backtester/internal/bar"
)

// persistIndicatorsToCSV writes series's augmented indicator columns back
// into the symbol's source CSV under dataDir (§4.2 item 5): a permanent
// write to the input file, distinct from the on-disk SQLite cache that
// NewManager clears on every construction (item 6). Whatever indicator
// columns already exist in the file are merged non-destructively using the
// same keep-the-side-with-more-non-missing-values rule mergeFromDisk
// applies to the SQLite cache.
func (m *Manager) persistIndicatorsToCSV(symbol string, series *bar.Series) error {
	path, ok := resolvePath(m.dataDir, symbol)
	if !ok {
		path = filepath.Join(m.dataDir, "cleaned_stocks", symbol+".csv")
	}

	existing, err := readExistingColumns(path, series)
	if err != nil {
		log.Debug().Err(err).Str("symbol", symbol).Msg("data manager: no existing indicator columns to merge")
	}
	for name, diskValues := range existing {
		if !series.Has(name) {
			series.Set(name, diskValues)
			continue
		}
		memValues := series.Get(name)
		if bar.NonMissingCount(memValues) >= bar.NonMissingCount(diskValues) {
			fillFrom(memValues, diskValues)
		} else {
			fillFrom(diskValues, memValues)
			series.Set(name, diskValues)
		}
	}

	return writeSeriesCSV(path, series)
}

// readExistingColumns reads whatever non-OHLCV columns are already present
// in the CSV at path, aligned to series.Bars by date. Dates present in the
// file but absent from series are ignored; dates in series absent from the
// file come back as NaN.
func readExistingColumns(path string, series *bar.Series) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return nil, err
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}
	dateCol, ok := firstPresent(colIdx, knownDateColumns)
	if !ok {
		return nil, fmt.Errorf("%s: no date column", path)
	}
	fieldIdx := make(map[string]int, 5)
	for field, aliases := range knownOHLCV {
		if idx, ok := firstPresent(colIdx, aliases); ok {
			fieldIdx[field] = idx
		}
	}
	extraNames := extraColumnNames(header, dateCol, fieldIdx)
	if len(extraNames) == 0 {
		return nil, nil
	}

	byDate := make(map[string]int, len(series.Bars))
	for i, b := range series.Bars {
		byDate[b.Date.Format("2006-01-02")] = i
	}

	out := make(map[string][]float64, len(extraNames))
	for _, name := range extraNames {
		out[name] = fullNaN(series.Len())
	}
	for _, row := range records[1:] {
		if len(row) <= dateCol {
			continue
		}
		d, err := parseDate(row[dateCol])
		if err != nil {
			continue
		}
		idx, ok := byDate[d.Format("2006-01-02")]
		if !ok {
			continue
		}
		for _, name := range extraNames {
			out[name][idx] = NaNIfEmpty(colIdx[name], row)
		}
	}
	return out, nil
}

func fullNaN(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// writeSeriesCSV overwrites path with date,open,high,low,close,volume plus
// every column in series.Columns (sorted by name), permanently committing
// the augmented series to disk.
func writeSeriesCSV(path string, series *bar.Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	names := make([]string, 0, len(series.Columns))
	for name := range series.Columns {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{"date", "open", "high", "low", "close", "volume"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, b := range series.Bars {
		row := []string{
			b.Date.Format("2006-01-02"),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		}
		for _, name := range names {
			v := series.Columns[name][i]
			if isNaN(v) {
				row = append(row, "")
			} else {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
