package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DeletesTotal tracks terminal delete outcomes
	DeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimator_deletes_total",
			Help: "Total number of delete operations by outcome",
		},
		[]string{"outcome"},
	)

	// DeleteFailures tracks failed deletes by error category
	DeleteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimator_delete_failures_total",
			Help: "Total number of failed deletes by error category",
		},
		[]string{"category"},
	)

	// DeleteRetries tracks retry attempts performed by the retry policy
	DeleteRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estimator_delete_retries_total",
			Help: "Total number of delete retry attempts",
		},
	)

	// DeleteLatency tracks end-to-end delete latency
	DeleteLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "estimator_delete_latency_seconds",
			Help:    "Delete operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ProjectsCached tracks the number of projects held in the cache
	ProjectsCached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "estimator_projects_cached",
			Help: "Number of projects currently held in the in-memory cache",
		},
	)

	// DBConnectionPoolUsage tracks database connection pool utilization
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "estimator_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)

	// TrashRestores tracks projects restored from the trash bin
	TrashRestores = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estimator_trash_restores_total",
			Help: "Total number of projects restored from the trash bin",
		},
	)
)
