// Package metrics exposes Prometheus instrumentation for the HTTP API
// and order outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests       *prometheus.CounterVec
	LatencyMS      *prometheus.HistogramVec
	OrdersCreated  prometheus.Counter
	OrdersRejected *prometheus.CounterVec
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordercatalog",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ordercatalog",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ordercatalog",
		Subsystem: service,
		Name:      "orders_created_total",
		Help:      "Total number of successfully created orders.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordercatalog",
		Subsystem: service,
		Name:      "orders_rejected_total",
		Help:      "Total number of rejected order attempts.",
	}, []string{"reason"})

	prometheus.MustRegister(requests, latency, created, rejected)
	return &ServerMetrics{
		Requests:       requests,
		LatencyMS:      latency,
		OrdersCreated:  created,
		OrdersRejected: rejected,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
