// Package metrics provides Prometheus metrics for the fortuna dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the fortuna service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset
	datasetLoads          *prometheus.CounterVec
	datasetLoadDuration   prometheus.Histogram
	datasetRecords        prometheus.Gauge
	datasetRecordsClamped prometheus.Counter

	// Layout engine
	layoutRuns       *prometheus.CounterVec
	layoutTicks      *prometheus.HistogramVec
	layoutDuration   *prometheus.HistogramVec
	activeAnimations prometheus.Gauge
	streamFrames     prometheus.Counter
	streamClients    prometheus.Gauge

	aggregationLatency *prometheus.HistogramVec

	// Rich list store
	rankStoreRecords       prometheus.Gauge
	rankStoreUpdateLatency prometheus.Histogram
	rankStoreQueryLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fortuna",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place to declare every metric
	auto := promauto.With(m.registry)
	ms := m.histogramBuckets

	m.datasetLoads = auto.NewCounterVec(m.counter("dataset_loads_total", "Dataset load attempts by outcome"), []string{"outcome"})
	m.datasetLoadDuration = auto.NewHistogram(m.histogram("dataset_load_duration_milliseconds", "Dataset load duration in milliseconds", ms))
	m.datasetRecords = auto.NewGauge(m.gauge("dataset_records", "Number of records in the loaded dataset"))
	m.datasetRecordsClamped = auto.NewCounter(m.counter("dataset_records_clamped_total", "Records whose negative net worth was clamped to zero"))

	m.layoutRuns = auto.NewCounterVec(m.counter("layout_runs_total", "Layout runs by view, mode and outcome"), []string{"view", "mode", "outcome"})
	m.layoutTicks = auto.NewHistogramVec(
		m.histogram("layout_ticks", "Ticks executed per layout run", []float64{10, 30, 60, 120, 180, 240, 300, 600}),
		[]string{"view"},
	)
	m.layoutDuration = auto.NewHistogramVec(m.histogram("layout_duration_milliseconds", "Layout run duration in milliseconds", ms), []string{"view", "mode"})
	m.activeAnimations = auto.NewGauge(m.gauge("layout_active_animations", "Animated layouts currently running"))
	m.streamFrames = auto.NewCounter(m.counter("stream_frames_total", "Animation frames written to stream clients"))
	m.streamClients = auto.NewGauge(m.gauge("stream_clients", "Connected animation stream clients"))

	m.aggregationLatency = auto.NewHistogramVec(m.histogram("aggregation_latency_milliseconds", "Aggregation latency in milliseconds", ms), []string{"kind"})

	m.rankStoreRecords = auto.NewGauge(m.gauge("rank_store_records", "Entries held by the rich list store"))
	m.rankStoreUpdateLatency = auto.NewHistogram(m.histogram("rank_store_update_latency_milliseconds", "Rich list insert latency in milliseconds", ms))
	m.rankStoreQueryLatency = auto.NewHistogram(m.histogram("rank_store_query_latency_milliseconds", "Rich list query latency in milliseconds", ms))

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total", "Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", ms),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(m.counter("errors_by_component_total", "Errors by component and type"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counter("errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counter("errors_by_endpoint_total", "Errors by endpoint, method and type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Dataset metrics.

// RecordDatasetLoad records one load attempt and its duration.
func RecordDatasetLoad(outcome string, durationMs float64) {
	globalManager.datasetLoads.WithLabelValues(outcome).Inc()
	globalManager.datasetLoadDuration.Observe(durationMs)
}

// UpdateDatasetRecords sets the loaded record count.
func UpdateDatasetRecords(count int) {
	globalManager.datasetRecords.Set(float64(count))
}

// RecordDatasetRecordsClamped counts records with a clamped net worth.
func RecordDatasetRecordsClamped(count int) {
	globalManager.datasetRecordsClamped.Add(float64(count))
}

// Layout metrics.

// RecordLayoutRun counts a finished layout run.
func RecordLayoutRun(view, mode, outcome string) {
	globalManager.layoutRuns.WithLabelValues(view, mode, outcome).Inc()
}

// RecordLayoutTicks records how many ticks a run executed.
func RecordLayoutTicks(view string, ticks int) {
	globalManager.layoutTicks.WithLabelValues(view).Observe(float64(ticks))
}

// RecordLayoutDuration records a run's wall time in milliseconds.
func RecordLayoutDuration(view, mode string, durationMs float64) {
	globalManager.layoutDuration.WithLabelValues(view, mode).Observe(durationMs)
}

// IncActiveAnimations marks an animation as started.
func IncActiveAnimations() { globalManager.activeAnimations.Inc() }

// DecActiveAnimations marks an animation as finished.
func DecActiveAnimations() { globalManager.activeAnimations.Dec() }

// RecordStreamFrame counts one frame written to a stream client.
func RecordStreamFrame() { globalManager.streamFrames.Inc() }

// IncStreamClients marks a stream client as connected.
func IncStreamClients() { globalManager.streamClients.Inc() }

// DecStreamClients marks a stream client as gone.
func DecStreamClients() { globalManager.streamClients.Dec() }

// RecordAggregationLatency records aggregation latency in milliseconds.
func RecordAggregationLatency(kind string, latencyMs float64) {
	globalManager.aggregationLatency.WithLabelValues(kind).Observe(latencyMs)
}

// Rich list store metrics.

// UpdateRankStoreRecords sets the number of stored entries.
func UpdateRankStoreRecords(count int) {
	globalManager.rankStoreRecords.Set(float64(count))
}

// RecordRankStoreUpdateLatency records insert latency in milliseconds.
func RecordRankStoreUpdateLatency(latencyMs float64) {
	globalManager.rankStoreUpdateLatency.Observe(latencyMs)
}

// RecordRankStoreQueryLatency records query latency in milliseconds.
func RecordRankStoreQueryLatency(latencyMs float64) {
	globalManager.rankStoreQueryLatency.Observe(latencyMs)
}

// HTTP metrics.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
