package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AppMetrics bundles every prometheus collector the app exports.
type AppMetrics struct {
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	goroutines       prometheus.Gauge
	memoryUsage      prometheus.Gauge
	todoOperations   *prometheus.CounterVec
	shareOperations  *prometheus.CounterVec
	rateLimitHits    *prometheus.CounterVec
	remindersSent    prometheus.Counter
	overdueNotices   prometheus.Counter
	wsConnections    prometheus.Gauge
	wsEventsPub      *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		goroutines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "goroutines_total",
				Help: "Number of goroutines",
			},
		),
		memoryUsage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
		),
		todoOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_operations_total",
				Help: "Total number of todo operations",
			},
			[]string{"operation"},
		),
		shareOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "share_operations_total",
				Help: "Total number of sharing operations",
			},
			[]string{"operation"},
		),
		rateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"path", "key_type"},
		),
		remindersSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "reminders_sent_total",
				Help: "Total number of reminder notifications sent",
			},
		),
		overdueNotices: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "overdue_notices_total",
				Help: "Total number of overdue notifications sent",
			},
		),
		wsConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ws_connections",
				Help: "Number of open websocket connections",
			},
		),
		wsEventsPub: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ws_events_published_total",
				Help: "Total number of websocket events published",
			},
			[]string{"event"},
		),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.goroutines,
		m.memoryUsage,
		m.todoOperations,
		m.shareOperations,
		m.rateLimitHits,
		m.remindersSent,
		m.overdueNotices,
		m.wsConnections,
		m.wsEventsPub,
	)

	return m
}

func (m *AppMetrics) RecordRequest(method, path, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

func (m *AppMetrics) RecordTodoOperation(operation string) {
	m.todoOperations.WithLabelValues(operation).Inc()
}

func (m *AppMetrics) RecordShareOperation(operation string) {
	m.shareOperations.WithLabelValues(operation).Inc()
}

func (m *AppMetrics) RecordRateLimitHit(path, keyType string) {
	m.rateLimitHits.WithLabelValues(path, keyType).Inc()
}

func (m *AppMetrics) RecordReminderSent() {
	m.remindersSent.Inc()
}

func (m *AppMetrics) RecordOverdueNotice() {
	m.overdueNotices.Inc()
}

func (m *AppMetrics) IncrementWSConnections() {
	m.wsConnections.Inc()
}

func (m *AppMetrics) DecrementWSConnections() {
	m.wsConnections.Dec()
}

func (m *AppMetrics) RecordWSEvent(event string) {
	m.wsEventsPub.WithLabelValues(event).Inc()
}

// StartSystemMetrics samples runtime gauges until stop is closed.
func (m *AppMetrics) StartSystemMetrics(stop <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				var memStats runtime.MemStats
				runtime.ReadMemStats(&memStats)
				m.memoryUsage.Set(float64(memStats.Alloc))
				m.goroutines.Set(float64(runtime.NumGoroutine()))
			case <-stop:
				return
			}
		}
	}()
}
