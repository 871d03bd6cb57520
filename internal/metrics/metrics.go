// Package metrics exposes extraction counters and latencies to prometheus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "caselens"

// Metrics owns a private registry so tests and embedded servers never clash
// on the global one.
type Metrics struct {
	registry    *prometheus.Registry
	extractions *prometheus.CounterVec
	aiFailures  *prometheus.CounterVec
	conflicts   prometheus.Counter
	duration    *prometheus.HistogramVec
	batch       *prometheus.CounterVec
}

// New registers the caselens series plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Completed extractions by result source.",
		}, []string{"source"}),
		aiFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_failures_total",
			Help:      "AI branch soft failures by kind.",
		}, []string{"kind"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_total",
			Help:      "Rule and AI disagreements recorded by the merge step.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "End-to-end extraction latency by method.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
		batch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_documents_total",
			Help:      "Batch documents by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		m.extractions,
		m.aiFailures,
		m.conflicts,
		m.duration,
		m.batch,
	)
	return m
}

// ObserveExtraction records one finished extraction.
func (m *Metrics) ObserveExtraction(source, method string, elapsed time.Duration, conflicts int) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(source).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	if conflicts > 0 {
		m.conflicts.Add(float64(conflicts))
	}
}

// AIFailure counts one soft failure of the AI branch.
func (m *Metrics) AIFailure(kind string) {
	if m == nil {
		return
	}
	m.aiFailures.WithLabelValues(kind).Inc()
}

// BatchDocument counts one batch document; outcome is "ok" or "error".
func (m *Metrics) BatchDocument(outcome string) {
	if m == nil {
		return
	}
	m.batch.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
