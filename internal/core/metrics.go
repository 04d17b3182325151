package core

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serviceMetrics lives on a per-service registry so tests can build many services.
type serviceMetrics struct {
	registry      *prometheus.Registry
	queries       *prometheus.CounterVec
	queryResults  *prometheus.HistogramVec
	questions     *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

func newServiceMetrics() *serviceMetrics {
	m := &serviceMetrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_queries_total",
			Help: "Catalog lookups by kind (search, suggest) and outcome.",
		}, []string{"kind", "outcome"}),
		queryResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_query_results",
			Help:    "Number of compounds matched per lookup.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"kind"}),
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "questions_total",
			Help: "Question store operations by action and outcome.",
		}, []string{"action", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "question_notifications_total",
			Help: "Notification attempts for new questions by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.queries,
		m.queryResults,
		m.questions,
		m.notifications,
	)
	return m
}

func (m *serviceMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
