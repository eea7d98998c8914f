// Package metrics exposes Prometheus instrumentation for the backtesting
// engine: evaluation throughput, optimizer progress, and data-cache
// behavior. Namespace/subsystem layout follows the source project's
// metrics registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is the custom prometheus registry for the backtester.
	Registry = prometheus.NewRegistry()

	// EvaluationsTotal counts completed strategy evaluations by outcome.
	EvaluationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ashare_backtester",
			Subsystem: "evaluator",
			Name:      "evaluations_total",
			Help:      "Total number of strategy evaluations",
		},
		[]string{"strategy", "outcome"}, // outcome: "success", "error"
	)

	// EvaluationDuration tracks evaluation latency as a histogram.
	EvaluationDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ashare_backtester",
			Subsystem: "evaluator",
			Name:      "evaluation_duration_seconds",
			Help:      "Strategy evaluation duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"strategy"},
	)

	// OptimizerEvaluationsTotal counts individual optimizer objective calls.
	OptimizerEvaluationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ashare_backtester",
			Subsystem: "optimizer",
			Name:      "evaluations_total",
			Help:      "Total number of objective function evaluations during optimization",
		},
		[]string{"strategy"},
	)

	// OptimizerBestObjective tracks the best objective value found per run.
	OptimizerBestObjective = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ashare_backtester",
			Subsystem: "optimizer",
			Name:      "best_objective",
			Help:      "Best objective value found by the most recent optimization run",
		},
		[]string{"strategy", "objective"},
	)

	// OptimizerRunDuration tracks full optimization-run latency.
	OptimizerRunDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ashare_backtester",
			Subsystem: "optimizer",
			Name:      "run_duration_seconds",
			Help:      "Optimization run duration in seconds",
			Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"strategy"},
	)

	// CacheRequestsTotal counts Data Manager cache lookups by hit/miss.
	CacheRequestsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ashare_backtester",
			Subsystem: "data",
			Name:      "cache_requests_total",
			Help:      "Total Data Manager cache lookups",
		},
		[]string{"result"}, // result: "hit", "miss"
	)

	// CacheEntriesCount tracks the current number of cached series.
	CacheEntriesCount = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ashare_backtester",
			Subsystem: "data",
			Name:      "cache_entries",
			Help:      "Number of series currently held in the in-memory cache",
		},
	)

	// CacheEvictionsTotal counts LRU evictions from the in-memory cache.
	CacheEvictionsTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: "ashare_backtester",
			Subsystem: "data",
			Name:      "cache_evictions_total",
			Help:      "Total number of cache entries evicted under capacity pressure",
		},
	)

	// CompareRunDuration tracks full comparison-driver run latency.
	CompareRunDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ashare_backtester",
			Subsystem: "compare",
			Name:      "run_duration_seconds",
			Help:      "Comparison driver run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)
)

// RecordEvaluation records one strategy evaluation outcome and duration.
func RecordEvaluation(strategy string, success bool, durationSeconds float64) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	EvaluationsTotal.WithLabelValues(strategy, outcome).Inc()
	EvaluationDuration.WithLabelValues(strategy).Observe(durationSeconds)
}

// RecordOptimizerEvaluation increments the per-call objective counter.
func RecordOptimizerEvaluation(strategy string) {
	OptimizerEvaluationsTotal.WithLabelValues(strategy).Inc()
}

// RecordOptimizerRun records a completed optimization run's best objective
// and total duration.
func RecordOptimizerRun(strategy, objective string, best, durationSeconds float64) {
	OptimizerBestObjective.WithLabelValues(strategy, objective).Set(best)
	OptimizerRunDuration.WithLabelValues(strategy).Observe(durationSeconds)
}

// RecordCacheLookup records a Data Manager cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(result).Inc()
}

// SetCacheEntries sets the current in-memory cache entry count.
func SetCacheEntries(n int) {
	CacheEntriesCount.Set(float64(n))
}

// RecordCacheEviction increments the eviction counter.
func RecordCacheEviction() {
	CacheEvictionsTotal.Inc()
}

// RecordCompareRun records a comparison driver run's duration.
func RecordCompareRun(durationSeconds float64) {
	CompareRunDuration.Observe(durationSeconds)
}

// Init registers the standard Go runtime/process collectors.
func Init() {
	Registry.MustRegister(prometheus.NewGoCollector())
	Registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
}
