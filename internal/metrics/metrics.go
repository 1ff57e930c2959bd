// Package metrics holds the Prometheus instrumentation for analyses.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
)

const namespace = "reddit_sentiment"

// Outcome labels for AnalysesTotal.
const (
	OutcomeResults   = "results"
	OutcomeNoResults = "no_results"
	OutcomeError     = "error"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	AnalysesTotal *prometheus.CounterVec
	ItemsTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry with Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analysis requests by scope and outcome.",
		}, []string{"scope", "outcome"}),
		ItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Classified posts and comments by sentiment.",
		}, []string{"sentiment"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching submissions and comments.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"scope"}),
	}
	reg.MustRegister(m.AnalysesTotal, m.ItemsTotal, m.FetchDuration)
	return m
}

// ObserveFetch records how long a fetch took.
func (m *Metrics) ObserveFetch(scope domain.Scope, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(string(scope)).Observe(d.Seconds())
}

// ObserveAnalysis records the outcome and the per-sentiment item counts.
func (m *Metrics) ObserveAnalysis(scope domain.Scope, outcome string, counts map[domain.Sentiment]int) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(string(scope), outcome).Inc()
	for sent, n := range counts {
		if n > 0 {
			m.ItemsTotal.WithLabelValues(sent.String()).Add(float64(n))
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
