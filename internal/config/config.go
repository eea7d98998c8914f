// Package config loads environment-based overrides for runtime settings
// (data directory, cache paths/capacity, optimization defaults). A .env
// file in the working directory is loaded automatically, the same way
// Bazil-The-Great's config package does it, falling through to explicit
// defaults when a variable is unset.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

// GetEnv returns the named environment variable, or fallback if unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetEnvInt parses the named environment variable as an int, or returns
// fallback if unset, empty, or unparseable.
func GetEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvFloat parses the named environment variable as a float64, or
// returns fallback if unset, empty, or unparseable.
func GetEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Settings holds the environment-overridable knobs the CLI wires into the
// Data Manager and Optimizer. Backtest friction parameters are controlled
// via engine.Option instead — they belong to a run's config, not the
// process's environment.
type Settings struct {
	DataDir            string
	CacheDBPath         string
	CacheCapacity       int
	OptimizerMaxEvals   int
	OptimizerObjective  string
	ReportDir           string
	LogLevel            string
}

// Load reads Settings from the environment, applying defaults matching
// spec §4.2.6 and §4.6 for anything unset.
func Load() Settings {
	return Settings{
		DataDir:            GetEnv("ASHARE_DATA_DIR", "./data/cleaned_stocks"),
		CacheDBPath:        GetEnv("ASHARE_CACHE_DB", "./data/cache.db"),
		CacheCapacity:      GetEnvInt("ASHARE_CACHE_CAPACITY", 100),
		OptimizerMaxEvals:  GetEnvInt("ASHARE_MAX_EVALUATIONS", 10),
		OptimizerObjective: GetEnv("ASHARE_OBJECTIVE", "sharpe_ratio"),
		ReportDir:          GetEnv("ASHARE_REPORT_DIR", "./reports"),
		LogLevel:           GetEnv("ASHARE_LOG_LEVEL", "info"),
	}
}
