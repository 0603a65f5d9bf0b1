// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all collectors for the API.
type Registry struct {
	reg *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	DealsComputed   *prometheus.CounterVec
	ScenariosSaved  prometheus.Counter
	PointsSampled   *prometheus.CounterVec
	RateLimited     prometheus.Counter
}

func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rarorac_http_request_duration_seconds",
				Help:    "HTTP request latency by route and status",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route", "status"},
		),

		DealsComputed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rarorac_deals_computed_total",
				Help: "Deals computed, by outcome",
			},
			[]string{"outcome"},
		),

		ScenariosSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rarorac_scenarios_saved_total",
				Help: "Scenarios saved across all sessions",
			},
		),

		PointsSampled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rarorac_portfolio_points_sampled_total",
				Help: "Synthetic portfolio points drawn, by distribution",
			},
			[]string{"distribution"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rarorac_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.RequestDuration,
		r.DealsComputed,
		r.ScenariosSaved,
		r.PointsSampled,
		r.RateLimited,
	)
	return r
}

// SessionGauge exports the number of live sessions as reported by count.
func (r *Registry) SessionGauge(count func() int) {
	r.reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "rarorac_active_sessions",
			Help: "Sessions currently held in memory",
		},
		func() float64 { return float64(count()) },
	))
}

func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
