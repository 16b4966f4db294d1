package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opencampus/timetable-api/internal/dto"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	runTotal       *prometheus.CounterVec
	runDuration    prometheus.Histogram
	runBacktracks  prometheus.Histogram
	runNodes       prometheus.Histogram
	runScheduled   prometheus.Gauge
	runUnscheduled prometheus.Gauge
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

	runTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_runs_total",
		Help: "Total number of scheduling runs by outcome",
	}, []string{"outcome"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_run_duration_seconds",
		Help:    "Wall-clock duration of scheduling runs",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	runBacktracks := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_run_backtracks",
		Help:    "Backtrack count per scheduling run",
		Buckets: prometheus.ExponentialBuckets(1, 4, 12),
	})

	runNodes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_run_nodes",
		Help:    "Search nodes visited per scheduling run",
		Buckets: prometheus.ExponentialBuckets(1, 4, 12),
	})

	runScheduled := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_last_run_scheduled_sections",
		Help: "Sections placed by the most recent scheduling run",
	})

	runUnscheduled := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_last_run_unscheduled_sections",
		Help: "Sections left unplaced by the most recent scheduling run",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runTotal, runDuration, runBacktracks, runNodes, runScheduled, runUnscheduled, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		runTotal:        runTotal,
		runDuration:     runDuration,
		runBacktracks:   runBacktracks,
		runNodes:        runNodes,
		runScheduled:    runScheduled,
		runUnscheduled:  runUnscheduled,
	}
}

// RegisterQueueDepth exposes a live gauge tracking a background queue's
// backlog. Call once per queue, before serving traffic.
func (m *MetricsService) RegisterQueueDepth(queue string, depth func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "job_queue_depth",
		Help:        "Jobs waiting in a background queue",
		ConstLabels: prometheus.Labels{"queue": queue},
	}, func() float64 {
		return float64(depth())
	}))
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

// ObserveScheduleRun records the outcome and counters of one scheduling run.
func (m *MetricsService) ObserveScheduleRun(outcome string, stats dto.RunStatistics) {
	if m == nil {
		return
	}
	m.runTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(float64(stats.DurationMs) / 1000)
	m.runBacktracks.Observe(float64(stats.BacktrackCount))
	m.runNodes.Observe(float64(stats.NodeCount))
	m.runScheduled.Set(float64(stats.Scheduled))
	m.runUnscheduled.Set(float64(stats.Unscheduled))
}
