// Package metrics provides Prometheus metrics for the podium highscore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Submission outcomes per table.
	submissionsAccepted *prometheus.CounterVec
	submissionsRejected *prometheus.CounterVec
	proofFailures       prometheus.Counter

	// Table state.
	tableEntries *prometheus.GaugeVec

	// Storage performance.
	storeLoadLatency prometheus.Histogram
	storeSaveLatency prometheus.Histogram

	// Ranking cache effectiveness.
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// HTTP surface.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking.
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "highscore",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.submissionsAccepted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "submissions_accepted_total",
			Help:      "Total number of score submissions admitted to a table",
		},
		[]string{"table"},
	)

	m.submissionsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "submissions_rejected_total",
			Help:      "Total number of score submissions that did not qualify",
		},
		[]string{"table"},
	)

	m.proofFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "proof_failures_total",
		Help:      "Total number of submissions rejected for a bad proof value",
	})

	m.tableEntries = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "table_entries",
			Help:      "Current number of retained entries per table",
		},
		[]string{"table"},
	)

	m.storeLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_load_latency_milliseconds",
		Help:      "Histogram of table file load latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeSaveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_save_latency_milliseconds",
		Help:      "Histogram of table file save latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of ranking cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of ranking cache misses (table loaded from disk)",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "type"},
	)
}

// Package-level helpers operating on the global manager.

// RecordSubmissionAccepted increments the accepted-submission counter for table.
func RecordSubmissionAccepted(table string) {
	globalManager.submissionsAccepted.WithLabelValues(table).Inc()
}

// RecordSubmissionRejected increments the rejected-submission counter for table.
func RecordSubmissionRejected(table string) {
	globalManager.submissionsRejected.WithLabelValues(table).Inc()
}

// RecordProofFailure increments the bad-proof counter.
func RecordProofFailure() {
	globalManager.proofFailures.Inc()
}

// UpdateTableEntries sets the retained-entry gauge for table.
func UpdateTableEntries(table string, count int) {
	globalManager.tableEntries.WithLabelValues(table).Set(float64(count))
}

// RecordStoreLoadLatency records a table load duration in milliseconds.
func RecordStoreLoadLatency(latencyMs float64) {
	globalManager.storeLoadLatency.Observe(latencyMs)
}

// RecordStoreSaveLatency records a table save duration in milliseconds.
func RecordStoreSaveLatency(latencyMs float64) {
	globalManager.storeSaveLatency.Observe(latencyMs)
}

// RecordCacheHit increments the ranking cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the ranking cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent increments the error counter for a component/type pair.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
