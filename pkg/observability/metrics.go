package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Processor round trips, labelled by transport outcome
	processorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_processor_requests_total",
			Help: "Total number of HTTP round trips to payment processors",
		},
		[]string{
			"gateway", // credorax, anotherlane, econtext
			"action",  // processor specific action or page
			"outcome", // ok, network_error, canceled, http_error, circuit_open, rate_limited
		},
	)

	processorRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_processor_request_duration_seconds",
			Help:    "Duration of HTTP round trips to payment processors",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"gateway", "action"},
	)

	// Operation results as seen by callers
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_operations_total",
			Help: "Total gateway operations by result",
		},
		[]string{
			"gateway",
			"operation", // purchase, authorize, capture, void, refund, store
			"result",    // approved, declined, invalid, error
		},
	)

	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gateway_circuit_breaker_state",
			Help: "Processor circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"gateway"},
	)
)

// Operation results
const (
	ResultApproved = "approved"
	ResultDeclined = "declined"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// RecordProcessorRequest records one HTTP round trip to a processor
func RecordProcessorRequest(gateway, action, outcome string, duration time.Duration) {
	processorRequestsTotal.WithLabelValues(gateway, action, outcome).Inc()
	processorRequestDuration.WithLabelValues(gateway, action).Observe(duration.Seconds())
}

// RecordUnsentRequest counts a request that never reached the processor
func RecordUnsentRequest(gateway, action, outcome string) {
	processorRequestsTotal.WithLabelValues(gateway, action, outcome).Inc()
}

// RecordOperation records the result of one gateway operation
func RecordOperation(gateway, operation, result string) {
	operationsTotal.WithLabelValues(gateway, operation, result).Inc()
}

// SetCircuitBreakerState publishes the breaker state for a gateway
func SetCircuitBreakerState(gateway string, state int) {
	circuitBreakerState.WithLabelValues(gateway).Set(float64(state))
}
