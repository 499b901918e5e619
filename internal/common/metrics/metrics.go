// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphrag_queries_total",
			Help: "Total number of executed queries by classified intent",
		},
		[]string{"intent"},
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphrag_query_errors_total",
			Help: "Total number of queries that returned an error result",
		},
		[]string{"intent"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphrag_query_duration_seconds",
			Help:    "End-to-end duration of query execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"intent"},
	)

	QueryResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphrag_query_results",
			Help:    "Number of records returned per query",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 50},
		},
		[]string{"intent"},
	)

	// StageFallbacks counts degradations from a model-assisted strategy to rules.
	StageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphrag_stage_fallbacks_total",
			Help: "Total number of model-assisted stages that fell back to rules",
		},
		[]string{"stage", "reason"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphrag_cache_lookups_total",
			Help: "Result cache lookups by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)

// Fallback records a stage degradation.
func Fallback(stage, reason string) {
	StageFallbacks.WithLabelValues(stage, reason).Inc()
}
