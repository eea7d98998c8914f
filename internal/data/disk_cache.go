package data

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"ashare-backtester/internal/bar"
)

// mergeFromDisk applies the non-destructive merge rule (§4.2 item 5): for
// any column cached on disk, keep whichever side (the freshly loaded CSV's
// pre-existing columns, or the disk cache) has more non-missing values;
// otherwise fill per row from the other side.
func (m *Manager) mergeFromDisk(key cacheKey, series *bar.Series) {
	rows, err := m.db.Query(
		`SELECT column_name, payload FROM augmented_series WHERE symbol = ? AND cleaned = ?`,
		key.Symbol, boolToInt(key.Cleaned))
	if err != nil {
		log.Warn().Err(err).Str("symbol", key.Symbol).Msg("data manager: disk cache read failed")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			continue
		}
		diskValues := decodeColumn(payload)
		if len(diskValues) != series.Len() {
			continue
		}
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
}

// fillFrom copies non-missing values from src into dst wherever dst is
// missing, in place.
func fillFrom(dst, src []float64) {
	for i := range dst {
		if isNaN(dst[i]) && i < len(src) && !isNaN(src[i]) {
			dst[i] = src[i]
		}
	}
}

func isNaN(x float64) bool { return x != x }

// persist writes every non-OHLCV column back to the on-disk cache.
func (m *Manager) persist(key cacheKey, series *bar.Series) {
	tx, err := m.db.Begin()
	if err != nil {
		log.Warn().Err(err).Str("symbol", key.Symbol).Msg("data manager: disk cache write failed")
		return
	}
	stmt, err := tx.Prepare(
		`INSERT INTO augmented_series (symbol, cleaned, column_name, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(symbol, cleaned, column_name) DO UPDATE SET payload = excluded.payload`)
	if err != nil {
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for name, values := range series.Columns {
		if _, err := stmt.Exec(key.Symbol, boolToInt(key.Cleaned), name, encodeColumn(values)); err != nil {
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("symbol", key.Symbol).Msg("data manager: disk cache commit failed")
	}
}

func encodeColumn(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeColumn(payload []byte) []float64 {
	n := len(payload) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8:]))
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// listSymbols scans dataDir/cleaned_stocks for per-symbol CSV files.
func listSymbols(dataDir string) ([]string, error) {
	dir := filepath.Join(dataDir, "cleaned_stocks")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var symbols []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(e.Name(), ".csv"))
	}
	return symbols, nil
}
