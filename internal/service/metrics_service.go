package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes reported by the ingestion counter.
const (
	UploadOutcomeAccepted  = "accepted"
	UploadOutcomeDuplicate = "duplicate"
	UploadOutcomeRejected  = "rejected"
	UploadOutcomeFailed    = "failed"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	uploads         *prometheus.CounterVec
	uploadBytes     prometheus.Counter
	downloads       prometheus.Counter
	auditFailures   prometheus.Counter
	orphansRemoved  prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "action", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "action", "status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by cache layer and result",
	}, []string{"layer", "result"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for remote cache reads",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for remote cache writes",
		Buckets: prometheus.DefBuckets,
	})

	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "samudata_uploads_total",
		Help: "Upload attempts by outcome",
	}, []string{"outcome"})

	uploadBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "samudata_upload_bytes_total",
		Help: "Bytes accepted into the content store",
	})

	downloads := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "samudata_downloads_total",
		Help: "Successful downloads",
	})

	auditFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "samudata_audit_failures_total",
		Help: "Activity log appends that failed and were ignored",
	})

	orphansRemoved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "samudata_orphans_removed_total",
		Help: "Unreferenced payloads removed from the content store",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLookups, cacheLatency, cacheWrite,
		uploads, uploadBytes, downloads, auditFailures, orphansRemoved, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLookups:    cacheLookups,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		uploads:         uploads,
		uploadBytes:     uploadBytes,
		downloads:       downloads,
		auditFailures:   auditFailures,
		orphansRemoved:  orphansRemoved,
	}
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

// Registry exposes the underlying registry for tests and custom collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics. action is the dispatcher action, if any.
func (m *MetricsService) ObserveHTTPRequest(method, path, action string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, action, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, action, labelStatus).Inc()
}

// RecordCacheOperation records a hit or miss for the named cache layer.
func (m *MetricsService) RecordCacheOperation(layer string, hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(layer, result).Inc()
	if duration > 0 {
		m.cacheLatency.Observe(duration.Seconds())
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordUpload counts one upload attempt. bytes is only added for accepted uploads.
func (m *MetricsService) RecordUpload(outcome string, bytes int64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
	if outcome == UploadOutcomeAccepted && bytes > 0 {
		m.uploadBytes.Add(float64(bytes))
	}
}

// RecordDownload counts one served download.
func (m *MetricsService) RecordDownload() {
	if m == nil {
		return
	}
	m.downloads.Inc()
}

// RecordAuditFailure counts one dropped activity log append.
func (m *MetricsService) RecordAuditFailure() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

// RecordOrphansRemoved adds n removed payloads.
func (m *MetricsService) RecordOrphansRemoved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.orphansRemoved.Add(float64(n))
}
