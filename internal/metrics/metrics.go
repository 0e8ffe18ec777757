// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cubesphere_http_requests_total",
		Help: "Total HTTP requests by route",
	}, []string{"route"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cubesphere_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds by route",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	LocateTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cubesphere_locate_total",
		Help: "Total lat/lon to cell lookups",
	})
	SimTicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cubesphere_sim_ticks_total",
		Help: "Total simulation ticks",
	})
	SimCollisionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cubesphere_sim_collisions_total",
		Help: "Total body collisions resolved",
	})
	SimBodies = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cubesphere_sim_bodies",
		Help: "Bodies currently simulated",
	})
	WSClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cubesphere_ws_clients",
		Help: "Connected websocket clients",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(LocateTotal)
	prometheus.MustRegister(SimTicksTotal)
	prometheus.MustRegister(SimCollisionsTotal)
	prometheus.MustRegister(SimBodies)
	prometheus.MustRegister(WSClients)
}

// Handler serves the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }

// Instrument counts and times requests to next under the given route label.
func Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(s float64) {
			HTTPRequestDurationMs.WithLabelValues(route).Observe(s * 1000)
		}))
		defer timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(route).Inc()
		next(w, r)
	}
}
