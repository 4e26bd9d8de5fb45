// Package metrics owns the Prometheus registry of the server and the
// standalone HTTP endpoint that exposes it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics contains the counters recorded by the HTTP layer.
type Metrics struct {
	AuthAttempts    *prometheus.CounterVec
	GateDecisions   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CatalogRequests *prometheus.CounterVec
}

// NewMetrics creates the filmvault metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filmvault_auth_attempts_total",
				Help: "Register and login attempts by operation and outcome code",
			},
			[]string{"operation", "outcome"},
		),
		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filmvault_gate_decisions_total",
				Help: "Route admission decisions by result",
			},
			[]string{"decision"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filmvault_http_request_duration_seconds",
				Help:    "HTTP request latency by method, route and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		CatalogRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filmvault_catalog_requests_total",
				Help: "Catalog lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
	}

	reg.MustRegister(m.AuthAttempts, m.GateDecisions, m.RequestDuration, m.CatalogRequests)
	return m
}

// NewRegistry returns a private registry with Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}
