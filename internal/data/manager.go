// Package data implements the Data Manager: CSV-backed loading of cleaned
// per-symbol OHLCV tables and on-demand technical-indicator augmentation,
// behind two distinct, independent persistence mechanisms (§4.2 items 5-6).
// The first is permanent: augmented indicator columns are merged
// non-destructively back into the symbol's source CSV on disk, so a later
// process restart finds them already computed. The second is a disposable
// SQLite augmented-series cache, cleared on every Manager construction to
// avoid stale indicators leaking between runs — it speeds up same-process
// reloads only, never the CSV itself. Both sit behind a concurrency-safe
// in-memory cache (LRU, access-count eviction); concurrent readers are
// lock-free against each other, and concurrent fills for the same key are
// coalesced with singleflight the way stadam23's OrderCache coalesces
// concurrent ESI fetches for the same region+order-type key.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	_ "modernc.org/sqlite"

	"ashare-backtester/internal/bar"
	"ashare-backtester/internal/indicators"
	"ashare-backtester/internal/metrics"
)

type cacheKey struct {
	Symbol  string
	Cleaned bool
}

type cacheEntry struct {
	series      *bar.Series
	accessCount int64
}

// Manager loads, augments, and caches per-symbol augmented series.
type Manager struct {
	dataDir  string
	capacity int

	mu      sync.RWMutex
	entries map[cacheKey]*cacheEntry

	group singleflight.Group

	db *sql.DB
}

// NewManager opens the on-disk cache at dbPath (created if absent, cleared
// if present) and returns a Manager reading CSVs from dataDir with an
// in-memory LRU capacity of capacity symbols (default 100 per spec §4.2.6
// if capacity <= 0).
func NewManager(dataDir, dbPath string, capacity int) (*Manager, error) {
	if capacity <= 0 {
		capacity = 100
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`DELETE FROM augmented_series`); err != nil {
		db.Close()
		return nil, fmt.Errorf("clearing stale cache: %w", err)
	}
	log.Info().Str("data_dir", dataDir).Str("cache_db", dbPath).Msg("data manager: disk cache cleared")

	return &Manager{
		dataDir:  dataDir,
		capacity: capacity,
		entries:  make(map[cacheKey]*cacheEntry),
		db:       db,
	}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS augmented_series (
			symbol TEXT NOT NULL,
			cleaned INTEGER NOT NULL,
			column_name TEXT NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (symbol, cleaned, column_name)
		)`)
	return err
}

// Close releases the on-disk cache handle.
func (m *Manager) Close() error { return m.db.Close() }

// Load returns the augmented series for symbol with at least the requested
// indicator columns present, computing and caching whatever is missing.
func (m *Manager) Load(ctx context.Context, symbol string, required []string) (*bar.Series, error) {
	key := cacheKey{Symbol: symbol, Cleaned: true}

	if series, ok := m.lookupComplete(key, required); ok {
		metrics.RecordCacheLookup(true)
		return series, nil
	}
	metrics.RecordCacheLookup(false)

	sfKey := symbol
	result, err, _ := m.group.Do(sfKey, func() (interface{}, error) {
		return m.fill(key, required)
	})
	if err != nil {
		return nil, err
	}
	return result.(*bar.Series), nil
}

// lookupComplete returns the cached series if present and already carrying
// every required column, bumping its access count.
func (m *Manager) lookupComplete(key cacheKey, required []string) (*bar.Series, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	for _, name := range required {
		if !entry.series.Has(name) {
			return nil, false
		}
	}
	m.mu.Lock()
	entry.accessCount++
	m.mu.Unlock()
	return entry.series, true
}

// fill performs the actual load-augment-merge-cache sequence under
// singleflight, so concurrent callers for the same symbol share one load.
func (m *Manager) fill(key cacheKey, required []string) (*bar.Series, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	var series *bar.Series
	if ok {
		series = entry.series
	} else {
		loaded, err := loadCSV(m.dataDir, key.Symbol)
		if err != nil {
			return nil, err
		}
		m.mergeFromDisk(key, loaded)
		series = loaded
	}

	EnsureIndicators(series, required)
	EnsureIndicators(series, indicators.CanonicalColumns)

	if err := m.persistIndicatorsToCSV(key.Symbol, series); err != nil {
		log.Warn().Err(err).Str("symbol", key.Symbol).Msg("data manager: csv indicator writeback failed")
	}

	m.persist(key, series)
	m.store(key, series)
	return series, nil
}

func (m *Manager) store(key cacheKey, series *bar.Series) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[key]; ok {
		entry.series = series
		entry.accessCount++
		return
	}
	if len(m.entries) >= m.capacity {
		m.evictLeastAccessedLocked()
	}
	m.entries[key] = &cacheEntry{series: series, accessCount: 1}
	metrics.SetCacheEntries(len(m.entries))
}

func (m *Manager) evictLeastAccessedLocked() {
	var victim cacheKey
	var minCount int64 = -1
	for k, e := range m.entries {
		if minCount == -1 || e.accessCount < minCount {
			minCount = e.accessCount
			victim = k
		}
	}
	if minCount != -1 {
		delete(m.entries, victim)
		metrics.RecordCacheEviction()
		log.Debug().Str("symbol", victim.Symbol).Msg("data manager: evicted least-accessed cache entry")
	}
}

// ClearCache drops every in-memory entry.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[cacheKey]*cacheEntry)
}

// CacheInfo reports current cache occupancy for operational visibility.
type CacheInfo struct {
	Capacity int
	Size     int
	Symbols  []string
}

// CacheInfo returns the current in-memory cache occupancy.
func (m *Manager) CacheInfo() CacheInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	symbols := make([]string, 0, len(m.entries))
	for k := range m.entries {
		symbols = append(symbols, k.Symbol)
	}
	sort.Strings(symbols)
	return CacheInfo{Capacity: m.capacity, Size: len(m.entries), Symbols: symbols}
}

// ListAvailableSymbols scans the cleaned_stocks directory for CSV files.
func (m *Manager) ListAvailableSymbols() ([]string, error) {
	return listSymbols(m.dataDir)
}
