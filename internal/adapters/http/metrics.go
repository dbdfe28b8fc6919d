package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments the HTTP surface records into.
type Metrics struct {
	registry *prometheus.Registry

	MatchRequests   prometheus.Counter
	MatchDuration   prometheus.Histogram
	SessionsCreated prometheus.Counter
	SessionsDeleted prometheus.Counter
	Answers         *prometheus.CounterVec
}

// NewMetrics builds and registers the instrument set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		MatchRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formpilot_match_requests_total",
			Help: "Number of intent match requests served.",
		}),
		MatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "formpilot_match_duration_seconds",
			Help:    "Latency of intent matching.",
			Buckets: prometheus.DefBuckets,
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formpilot_sessions_created_total",
			Help: "Number of sessions created.",
		}),
		SessionsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formpilot_sessions_deleted_total",
			Help: "Number of sessions deleted.",
		}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formpilot_answers_total",
			Help: "Submitted answers by flow and outcome.",
		}, []string{"flow", "outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		m.MatchRequests,
		m.MatchDuration,
		m.SessionsCreated,
		m.SessionsDeleted,
		m.Answers,
	)
	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
