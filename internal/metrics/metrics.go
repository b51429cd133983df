package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booru_bridge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booru_bridge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "booru_bridge_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Index database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booru_bridge_db_queries_total",
			Help: "Total number of index database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booru_bridge_db_query_duration_seconds",
			Help:    "Index database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Metadata cache metrics
var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booru_bridge_cache_hits_total",
			Help: "Total number of metadata cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booru_bridge_cache_misses_total",
			Help: "Total number of metadata cache misses (absent or expired)",
		},
		[]string{"cache"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booru_bridge_cache_evictions_total",
			Help: "Total number of metadata cache entries evicted at capacity",
		},
		[]string{"cache"},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booru_bridge_thumbnail_generations_total",
			Help: "Total number of thumbnail generation attempts",
		},
		[]string{"strategy", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booru_bridge_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"strategy"},
	)

	ThumbnailJobsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "booru_bridge_thumbnail_jobs_in_flight",
			Help: "Number of thumbnail generations currently running per admission class",
		},
		[]string{"class"},
	)

	ThumbnailJobsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booru_bridge_thumbnail_jobs_deduplicated_total",
			Help: "Total number of requests that awaited an already-running generation",
		},
	)

	ThumbnailDiskHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booru_bridge_thumbnail_disk_hits_total",
			Help: "Total number of requests satisfied by an artifact already on disk",
		},
	)
)

// Sweeper metrics
var (
	SweeperRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booru_bridge_sweeper_runs_total",
			Help: "Total number of artifact retention sweeps",
		},
	)

	SweeperRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booru_bridge_sweeper_removed_total",
			Help: "Total number of artifacts removed by the retention sweeper",
		},
	)

	SweeperErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booru_bridge_sweeper_errors_total",
			Help: "Total number of sweeper iterations that ended in an error",
		},
	)

	SweeperLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "booru_bridge_sweeper_last_run_timestamp",
			Help: "Timestamp of the last completed retention sweep",
		},
	)
)
