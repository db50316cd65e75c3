// Package metrics exposes Prometheus collectors for statement processing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "statement_analyzer"

// Metrics owns a private registry so independent instances never collide.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	statements   *prometheus.CounterVec
	backends     *prometheus.CounterVec
	transactions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New registers the statement collectors along with the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "Statements processed, by platform and result status.",
		}, []string{"platform", "status"}),
		backends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_backend_total",
			Help:      "Documents whose text was produced by each extraction backend.",
		}, []string{"backend"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Canonical transactions produced, by platform.",
		}, []string{"platform"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_seconds",
			Help:      "Time spent processing one statement.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"platform"}),
	}

	m.registry.MustRegister(
		m.statements,
		m.backends,
		m.transactions,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveStatement records one processed statement.
func (m *Metrics) ObserveStatement(platform, status string, txns int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if platform == "" {
		platform = "any"
	}
	m.statements.WithLabelValues(platform, status).Inc()
	m.transactions.WithLabelValues(platform).Add(float64(txns))
	m.duration.WithLabelValues(platform).Observe(elapsed.Seconds())
}

// ObserveBackend records which extraction backend produced a document.
func (m *Metrics) ObserveBackend(name string) {
	if m == nil {
		return
	}
	m.backends.WithLabelValues(name).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
