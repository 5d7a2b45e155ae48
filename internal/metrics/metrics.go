// Package metrics exposes prometheus counters for searches, deletes and
// editor saves.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/university/internal/entities"
	"github.com/mrlokans/university/internal/search"
)

const namespace = "university"

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	searches      *prometheus.CounterVec
	searchMatches *prometheus.HistogramVec
	deletes       *prometheus.CounterVec
	saves         *prometheus.CounterVec
	editorSweeps  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches run, by record kind.",
		}, []string{"kind"}),
		searchMatches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matches",
			Help:      "Rows returned per search, by record kind.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100},
		}, []string{"kind"}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletes_total",
			Help:      "Delete requests, by record kind and outcome.",
		}, []string{"kind", "outcome"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "editor_saves_total",
			Help:      "Editor saves, by record kind and result.",
		}, []string{"kind", "result"}),
		editorSweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "editor_sessions_expired_total",
			Help:      "Editor sessions closed for being idle.",
		}),
	}

	m.registry.MustRegister(
		m.searches,
		m.searchMatches,
		m.deletes,
		m.saves,
		m.editorSweeps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SearchCompleted implements search.Observer.
func (m *Metrics) SearchCompleted(kind entities.Kind, matches int) {
	m.searches.WithLabelValues(string(kind)).Inc()
	m.searchMatches.WithLabelValues(string(kind)).Observe(float64(matches))
}

// DeleteCompleted implements search.Observer.
func (m *Metrics) DeleteCompleted(kind entities.Kind, _ uint, _ string, outcome search.Outcome, err error) {
	label := outcome.String()
	if err != nil {
		label = "failed"
	}
	m.deletes.WithLabelValues(string(kind), label).Inc()
}

// SaveCompleted implements editor.Observer.
func (m *Metrics) SaveCompleted(kind entities.Kind, _ uint, _ string, created bool, err error) {
	result := "updated"
	switch {
	case err != nil:
		result = "failed"
	case created:
		result = "created"
	}
	m.saves.WithLabelValues(string(kind), result).Inc()
}

// EditorSessionsExpired counts sessions closed by the idle sweep.
func (m *Metrics) EditorSessionsExpired(n int) {
	m.editorSweeps.Add(float64(n))
}
