package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(webhookEvents)
}

var (
	// outcome: processed|duplicate|ignored|bad_signature|bad_request|error
	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Inbound provider webhook deliveries by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)
)

func IncWebhook(provider, outcome string) {
	webhookEvents.WithLabelValues(norm(provider), norm(outcome)).Inc()
}
