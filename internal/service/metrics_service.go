package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API,
// the conflict validator and the auto-scheduler.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	validationRuns      *prometheus.CounterVec
	validationConflicts *prometheus.GaugeVec

	schedulerDuration    prometheus.Observer
	schedulerScheduled   prometheus.Counter
	schedulerUnscheduled prometheus.Counter
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

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	validationRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_runs_total",
		Help: "Total conflict validation runs",
	}, []string{"view"})

	validationConflicts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "validation_conflicts",
		Help: "Conflicts reported by the most recent validation run",
	}, []string{"view"})

	schedulerDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_run_duration_seconds",
		Help:    "Duration of auto-scheduler runs",
		Buckets: prometheus.DefBuckets,
	})

	schedulerScheduled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_sessions_scheduled_total",
		Help: "Sessions placed by the auto-scheduler",
	})

	schedulerUnscheduled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_sessions_unscheduled_total",
		Help: "Sessions the auto-scheduler could not place",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		validationRuns, validationConflicts,
		schedulerDuration, schedulerScheduled, schedulerUnscheduled, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:             registry,
		handler:              handler,
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		validationRuns:       validationRuns,
		validationConflicts:  validationConflicts,
		schedulerDuration:    schedulerDuration,
		schedulerScheduled:   schedulerScheduled,
		schedulerUnscheduled: schedulerUnscheduled,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveValidation records one validation run and its conflict count.
func (m *MetricsService) ObserveValidation(view string, conflicts int) {
	if m == nil {
		return
	}
	m.validationRuns.WithLabelValues(view).Inc()
	m.validationConflicts.WithLabelValues(view).Set(float64(conflicts))
}

// ObserveSchedulerRun records one auto-scheduler run.
func (m *MetricsService) ObserveSchedulerRun(duration time.Duration, scheduled, unscheduled int) {
	if m == nil {
		return
	}
	m.schedulerDuration.Observe(duration.Seconds())
	m.schedulerScheduled.Add(float64(scheduled))
	m.schedulerUnscheduled.Add(float64(unscheduled))
}
