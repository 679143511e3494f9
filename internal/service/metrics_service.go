package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation. It also satisfies
// records.Observer so the store reports mutations and persist latency.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	persistDuration prometheus.Histogram
	persistFailures prometheus.Counter
	summaryCalls    *prometheus.CounterVec
	scanEvents      *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "record_mutations_total",
		Help: "Record store mutations by name and result",
	}, []string{"mutation", "result"})

	persistDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapshot_persist_duration_seconds",
		Help:    "Latency of full snapshot writes",
		Buckets: prometheus.DefBuckets,
	})

	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_persist_failures_total",
		Help: "Snapshot writes that failed",
	})

	summaryCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "summary_requests_total",
		Help: "Summary generation calls by outcome",
	}, []string{"outcome"})

	scanEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_events_total",
		Help: "Scan events by outcome",
	}, []string{"outcome"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, mutations, persistDuration, persistFailures, summaryCalls, scanEvents, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		mutations:       mutations,
		persistDuration: persistDuration,
		persistFailures: persistFailures,
		summaryCalls:    summaryCalls,
		scanEvents:      scanEvents,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveMutation implements records.Observer.
func (m *MetricsService) ObserveMutation(name, result string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(name, result).Inc()
}

// ObservePersist implements records.Observer.
func (m *MetricsService) ObservePersist(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.persistDuration.Observe(duration.Seconds())
	if err != nil {
		m.persistFailures.Inc()
	}
}

// RecordSummary counts a summary generation attempt.
func (m *MetricsService) RecordSummary(outcome string) {
	if m == nil {
		return
	}
	m.summaryCalls.WithLabelValues(outcome).Inc()
}

// RecordScan counts a scan event outcome.
func (m *MetricsService) RecordScan(outcome string) {
	if m == nil {
		return
	}
	m.scanEvents.WithLabelValues(outcome).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}
