// Package metrics exposes Prometheus collectors for generation runs and the
// development server's HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/randalmurphal/promptfield/widget"
)

// Metrics holds the collectors. Create one per registry.
type Metrics struct {
	Generations       *prometheus.CounterVec
	GenerationLatency *prometheus.HistogramVec
	Requests          *prometheus.CounterVec
	RequestLatency    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptfield_generations_total",
				Help: "Generation runs by variant and final stage",
			},
			[]string{"variant", "stage", "result"},
		),
		GenerationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptfield_generation_seconds",
				Help:    "Duration of generation runs, generation and upsert included",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"variant"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptfield_http_requests_total",
				Help: "HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptfield_http_request_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.Generations, m.GenerationLatency, m.Requests, m.RequestLatency)
	return m
}

// ResultHook returns a widget.WithResultHook callback recording runs of a
// widget in variant v.
func (m *Metrics) ResultHook(v widget.Variant) func(widget.Result) {
	return func(res widget.Result) {
		m.Observe(v, res)
	}
}

// Observe records one generation run.
func (m *Metrics) Observe(v widget.Variant, res widget.Result) {
	result := "ok"
	if !res.OK() {
		result = "error"
	}
	m.Generations.WithLabelValues(v.String(), string(res.Stage), result).Inc()
	m.GenerationLatency.WithLabelValues(v.String()).Observe(res.Duration.Seconds())
}

// Middleware records request counts and latency labelled by chi route
// pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snoop := httpsnoop.CaptureMetrics(next, w, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(snoop.Code)).Inc()
		m.RequestLatency.WithLabelValues(r.Method, route).Observe(snoop.Duration.Seconds())
	})
}
