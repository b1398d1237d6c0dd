package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Export outcomes recorded by ObserveExport.
const (
	ExportOutcomeSuccess = "success"
	ExportOutcomeEmpty   = "empty"
	ExportOutcomeError   = "error"
)

// MetricsService encapsulates Prometheus instrumentation for the console.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	exports          *prometheus.CounterVec
	exportRecords    *prometheus.HistogramVec
	draftSaves       *prometheus.CounterVec
	signOuts         prometheus.Counter
}

// NewMetricsService registers the console collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of console HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of console HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of calls to the permit backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	upstreamTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_requests_total",
		Help: "Total calls to the permit backend",
	}, []string{"method", "endpoint", "status"})

	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_exports_total",
		Help: "Report exports by format and outcome",
	}, []string{"format", "outcome"})

	exportRecords := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_export_records",
		Help:    "Number of records written per export",
		Buckets: []float64{1, 10, 100, 1000, 5000, 10000},
	}, []string{"format"})

	draftSaves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "capture_draft_saves_total",
		Help: "Draft auto-saves by result",
	}, []string{"result"})

	signOuts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_sign_outs_total",
		Help: "Forced sign-outs after the backend rejected the token",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, upstreamTotal, exports, exportRecords, draftSaves, signOuts, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		upstreamDuration: upstreamDuration,
		upstreamTotal:    upstreamTotal,
		exports:          exports,
		exportRecords:    exportRecords,
		draftSaves:       draftSaves,
		signOuts:         signOuts,
	}
}

// Registry exposes the underlying registry for tests and extra collectors.
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

// ObserveHTTPRequest records console request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveUpstream records one backend call. status 0 means the backend was unreachable.
func (m *MetricsService) ObserveUpstream(method, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.upstreamDuration.WithLabelValues(method, endpoint, labelStatus).Observe(duration.Seconds())
	m.upstreamTotal.WithLabelValues(method, endpoint, labelStatus).Inc()
	if status == http.StatusUnauthorized {
		m.signOuts.Inc()
	}
}

// ObserveExport counts an export attempt.
func (m *MetricsService) ObserveExport(format, outcome string, records int) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format, outcome).Inc()
	if outcome == ExportOutcomeSuccess {
		m.exportRecords.WithLabelValues(format).Observe(float64(records))
	}
}

// ObserveDraftSave counts a draft auto-save.
func (m *MetricsService) ObserveDraftSave(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.draftSaves.WithLabelValues(result).Inc()
}
