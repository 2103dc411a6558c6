// Package metrics provides Prometheus metrics for the capsight dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the capsight service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics - dataset loads are the only write path
	datasetsLoaded      prometheus.Counter
	datasetLoadFailures prometheus.Counter
	rowsValidated       prometheus.Counter
	parseDuration       prometheus.Histogram

	// Dataset state metrics - current in-memory dataset shape
	datasetRows     prometheus.Gauge
	datasetPeriods  prometheus.Gauge
	datasetContexts prometheus.Gauge
	signalCount     prometheus.Gauge

	// Notes metrics
	notesSaved prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System metrics - collected in place of the default Go collectors
	systemMemoryUsage prometheus.Gauge
	systemGoroutines  prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "capsight",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.datasetsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datasets_loaded_total",
		Help:      "Total number of datasets loaded successfully",
	})

	m.datasetLoadFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_load_failures_total",
		Help:      "Total number of dataset loads rejected at parse or validation",
	})

	m.rowsValidated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_validated_total",
		Help:      "Total number of rows accepted by validation",
	})

	m.parseDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_duration_milliseconds",
		Help:      "Histogram of dataset parse plus validation time in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.datasetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_rows",
		Help:      "Number of validated rows in the current dataset",
	})

	m.datasetPeriods = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_periods",
		Help:      "Number of distinct reporting periods in the current dataset",
	})

	m.datasetContexts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_contexts",
		Help:      "Number of distinct context tags in the current dataset",
	})

	m.signalCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signal_count",
		Help:      "Number of heuristic signals derived from the current dataset",
	})

	m.notesSaved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notes_saved_total",
		Help:      "Total number of note writes to the local notes store",
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

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP error responses by endpoint and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current allocated heap memory in bytes",
	})

	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// RecordDatasetLoaded increments the successful dataset load counter.
func RecordDatasetLoaded() {
	globalManager.datasetsLoaded.Inc()
}

// RecordDatasetLoadFailure increments the failed dataset load counter.
func RecordDatasetLoadFailure() {
	globalManager.datasetLoadFailures.Inc()
}

// RecordRowsValidated adds to the validated rows counter.
func RecordRowsValidated(n int) {
	globalManager.rowsValidated.Add(float64(n))
}

// RecordParseDuration observes a parse+validate duration in milliseconds.
func RecordParseDuration(latencyMs float64) {
	globalManager.parseDuration.Observe(latencyMs)
}

// UpdateDatasetRows sets the current dataset row count.
func UpdateDatasetRows(n int) {
	globalManager.datasetRows.Set(float64(n))
}

// UpdateDatasetPeriods sets the current distinct period count.
func UpdateDatasetPeriods(n int) {
	globalManager.datasetPeriods.Set(float64(n))
}

// UpdateDatasetContexts sets the current distinct context tag count.
func UpdateDatasetContexts(n int) {
	globalManager.datasetContexts.Set(float64(n))
}

// UpdateSignalCount sets the current derived signal count.
func UpdateSignalCount(n int) {
	globalManager.signalCount.Set(float64(n))
}

// RecordNoteSaved increments the notes write counter.
func RecordNoteSaved() {
	globalManager.notesSaved.Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError increments the HTTP error counter.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the current allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutines.Set(float64(n))
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
