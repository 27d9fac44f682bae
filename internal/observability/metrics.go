// Package observability exposes Prometheus collectors for the
// reconciliation paths. The webhook path swallows almost every failure
// on purpose, so the counters here are the only place those failures
// remain visible.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	webhookEvents    *prometheus.CounterVec
	orderTransitions *prometheus.CounterVec
	gatewayRequests  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		webhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook deliveries by processing outcome.",
		}, []string{"outcome"}),
		orderTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "PENDING_PAYMENT to RECEIVED transitions by trigger path.",
		}, []string{"trigger"}),
		gatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Payment provider calls by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
}

func (m *Metrics) WebhookEvent(outcome string) {
	m.webhookEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) OrderTransition(trigger string) {
	m.orderTransitions.WithLabelValues(trigger).Inc()
}

func (m *Metrics) GatewayRequest(op, outcome string) {
	m.gatewayRequests.WithLabelValues(op, outcome).Inc()
}

// Handler serves the scrape endpoint for this registry only.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
