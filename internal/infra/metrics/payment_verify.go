package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentVerifyRequests,
		paymentVerifyDuration,
	)
}

var (
	// Count of verify calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): bad_json|missing_fields|bad_signature|verify_error|duplicate|unknown
	paymentVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_requests_total",
			Help: "Count of /payment/verify calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of verify handler grouped by result.
	paymentVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verify_duration_seconds",
			Help:    "Duration of /payment/verify handler in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)
)

func IncVerify(result, reason string) {
	paymentVerifyRequests.WithLabelValues(norm(result), norm(reason)).Inc()
}

func ObserveVerifyDuration(result string, seconds float64) {
	paymentVerifyDuration.WithLabelValues(norm(result)).Observe(seconds)
}
