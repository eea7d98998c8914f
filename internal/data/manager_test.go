package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtureCSV(t *testing.T, dir, symbol string) {
	t.Helper()
	stocksDir := filepath.Join(dir, "cleaned_stocks")
	require.NoError(t, os.MkdirAll(stocksDir, 0o755))
	content := "date,open,high,low,close,volume\n" +
		"2024-01-02,10,10.5,9.5,10.2,1000000\n" +
		"2024-01-03,10.2,10.8,10.0,10.6,1100000\n" +
		"2024-01-04,10.6,11.0,10.3,10.9,1200000\n"
	require.NoError(t, os.WriteFile(filepath.Join(stocksDir, symbol+".csv"), []byte(content), 0o644))
}

func TestLoadAugmentsCanonicalColumns(t *testing.T) {
	dir := t.TempDir()
	writeFixtureCSV(t, dir, "600000")

	mgr, err := NewManager(dir, filepath.Join(dir, "cache.db"), 10)
	require.NoError(t, err)
	defer mgr.Close()

	series, err := mgr.Load(context.Background(), "600000", []string{"RSI"})
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
	assert.True(t, series.Has("RSI"))
	assert.True(t, series.Has("MACD_DIF"))
	assert.True(t, series.Has("BOLL_UPPER"))
}

func TestLoadMissingSymbolIsNotFound(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, filepath.Join(dir, "cache.db"), 10)
	require.NoError(t, err)
	defer mgr.Close()

	_, err = mgr.Load(context.Background(), "doesnotexist", nil)
	require.Error(t, err)
}

func TestCacheInfoReflectsLoadedSymbols(t *testing.T) {
	dir := t.TempDir()
	writeFixtureCSV(t, dir, "600000")
	mgr, err := NewManager(dir, filepath.Join(dir, "cache.db"), 10)
	require.NoError(t, err)
	defer mgr.Close()

	_, err = mgr.Load(context.Background(), "600000", nil)
	require.NoError(t, err)

	info := mgr.CacheInfo()
	assert.Equal(t, 1, info.Size)
	assert.Contains(t, info.Symbols, "600000")
}
