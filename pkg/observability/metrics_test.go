package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordProcessorRequest(t *testing.T) {
	counter := processorRequestsTotal.WithLabelValues("credorax", "sale", "ok")
	before := testutil.ToFloat64(counter)

	RecordProcessorRequest("credorax", "sale", "ok", 120*time.Millisecond)
	RecordProcessorRequest("credorax", "sale", "ok", 80*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestRecordOperation(t *testing.T) {
	counter := operationsTotal.WithLabelValues("econtext", "capture", ResultDeclined)
	before := testutil.ToFloat64(counter)

	RecordOperation("econtext", "capture", ResultDeclined)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestSetCircuitBreakerState(t *testing.T) {
	SetCircuitBreakerState("anotherlane", 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(circuitBreakerState.WithLabelValues("anotherlane")))

	SetCircuitBreakerState("anotherlane", 0)
	assert.Equal(t, float64(0), testutil.ToFloat64(circuitBreakerState.WithLabelValues("anotherlane")))
}

func TestRecordUnsentRequest(t *testing.T) {
	counter := processorRequestsTotal.WithLabelValues("econtext", "sale", "rate_limited")
	before := testutil.ToFloat64(counter)

	RecordUnsentRequest("econtext", "sale", "rate_limited")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
