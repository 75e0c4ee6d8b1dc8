package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters the bot and its plugins report
type Metrics struct {
	// CommandsExecuted increases after each command execution
	CommandsExecuted *prometheus.CounterVec

	// UpstreamRequests counts requests to external APIs by service and outcome
	UpstreamRequests *prometheus.CounterVec

	// RolesRevoked counts premium roles removed by trigger (event, purge)
	RolesRevoked *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the counters and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		CommandsExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modplugins_commands_executed_total",
			Help: "Commands executed, by command.",
		}, []string{"command"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modplugins_upstream_requests_total",
			Help: "Requests to external APIs, by service and outcome.",
		}, []string{"service", "outcome"}),
		RolesRevoked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modplugins_premium_roles_revoked_total",
			Help: "Premium roles removed from members, by trigger.",
		}, []string{"trigger"}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.CommandsExecuted, m.UpstreamRequests, m.RolesRevoked)
	return m
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Upstream records one request to $service
func (m *Metrics) Upstream(service string, outcome string) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(service, outcome).Inc()
}

// Command records one command execution
func (m *Metrics) Command(command string) {
	if m == nil {
		return
	}
	m.CommandsExecuted.WithLabelValues(command).Inc()
}

// Revoked records $n removed roles
func (m *Metrics) Revoked(trigger string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RolesRevoked.WithLabelValues(trigger).Add(float64(n))
}
