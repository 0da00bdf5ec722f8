package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Rebuild metrics
	RebuildRuns      *prometheus.CounterVec
	RebuildDuration  *prometheus.HistogramVec
	SnapshotsWritten *prometheus.CounterVec
	RateFallbacks    *prometheus.CounterVec

	// Dispatch metrics
	ScopeLockContention *prometheus.CounterVec
	TasksProcessed      *prometheus.CounterVec
	TasksPending        prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Storage metrics
	SnapshotWriteRetries *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg. Tests use a fresh registry
// so that repeated construction does not panic.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Rebuild metrics
		RebuildRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goholdings_rebuild_runs_total",
				Help: "Total builder runs by builder, mode and status",
			},
			[]string{"builder", "mode", "status"},
		),
		RebuildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goholdings_rebuild_duration_seconds",
				Help:    "Duration of builder runs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"builder", "mode"},
		),
		SnapshotsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goholdings_snapshots_written_total",
				Help: "Total snapshots persisted by builder",
			},
			[]string{"builder"},
		),
		RateFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goholdings_rate_fallbacks_total",
				Help: "Conversions that did not use an exact-date rate",
			},
			[]string{"kind"},
		),

		// Dispatch metrics
		ScopeLockContention: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goholdings_scope_lock_contention_total",
				Help: "Rebuild attempts rejected because the scope was locked",
			},
			[]string{"kind"},
		),
		TasksProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goholdings_tasks_processed_total",
				Help: "Rebuild tasks processed by status",
			},
			[]string{"status"},
		),
		TasksPending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "goholdings_tasks_pending",
			Help: "Pending rebuild tasks seen by the last poll",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goholdings_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goholdings_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "goholdings_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),

		// Redis metrics
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goholdings_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goholdings_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Storage metrics
		SnapshotWriteRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goholdings_snapshot_write_retries_total",
				Help: "Snapshot replacements retried after a transient PostgreSQL conflict",
			},
			[]string{"table", "code"},
		),
	}
}
