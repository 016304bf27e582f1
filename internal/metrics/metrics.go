package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fetalrisk"

// Collector owns a private registry so tests can build as many as they need.
type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	ReadingsCreated   prometheus.Counter
	EvaluationsTotal  *prometheus.CounterVec
	ExternalCalls     *prometheus.CounterVec
	ExternalDuration  *prometheus.HistogramVec
	AlertsTotal       *prometheus.CounterVec
	EmailQueueDropped prometheus.Counter
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),

		ReadingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinical",
			Name:      "readings_created_total",
			Help:      "Vital-sign readings stored.",
		}),

		EvaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinical",
			Name:      "risk_evaluations_total",
			Help:      "Risk evaluations stored by level and whether the fallback was used.",
		}, []string{"level", "fallback"}),

		ExternalCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "external",
			Name:      "calls_total",
			Help:      "Calls to external collaborators by outcome.",
		}, []string{"collaborator", "outcome"}),

		ExternalDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "external",
			Name:      "call_duration_seconds",
			Help:      "Latency of calls to external collaborators.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 30},
		}, []string{"collaborator"}),

		AlertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "dispatched_total",
			Help:      "Alert deliveries by channel and result.",
		}, []string{"channel", "result"}),

		EmailQueueDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "email_queue_dropped_total",
			Help:      "Alert emails dropped because the queue was full.",
		}),
	}
}

func (collector *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(collector.registry, promhttp.HandlerOpts{})
}

func (collector *Collector) Registry() *prometheus.Registry {
	return collector.registry
}

func (collector *Collector) ObserveRequest(method string, route string, status string, elapsed time.Duration) {
	collector.RequestsTotal.WithLabelValues(method, route, status).Inc()
	collector.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (collector *Collector) ObserveExternalCall(collaborator string, outcome string, elapsed time.Duration) {
	collector.ExternalCalls.WithLabelValues(collaborator, outcome).Inc()
	collector.ExternalDuration.WithLabelValues(collaborator).Observe(elapsed.Seconds())
}

func (collector *Collector) ObserveEvaluation(level string, fallback bool) {
	label := "false"
	if fallback {
		label = "true"
	}
	collector.EvaluationsTotal.WithLabelValues(level, label).Inc()
}

func (collector *Collector) ObserveReading() {
	collector.ReadingsCreated.Inc()
}

func (collector *Collector) ObserveAlert(channel string, result string) {
	collector.AlertsTotal.WithLabelValues(channel, result).Inc()
}

func (collector *Collector) ObserveEmailDropped() {
	collector.EmailQueueDropped.Inc()
}
