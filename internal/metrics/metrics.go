// Package metrics holds the Prometheus instruments of the service. All
// collectors are registered with the default registry, which the router
// exposes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

	AdminLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Admin login attempts by result.",
		}, []string{"result"})

	CredentialUpgradesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_credential_upgrades_total",
			Help: "Plaintext admin credentials migrated to bcrypt.",
		})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AdminLoginsTotal,
		CredentialUpgradesTotal,
	)
}
