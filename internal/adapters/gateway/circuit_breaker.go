package gateway

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the state of a processor circuit breaker
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	// ErrCircuitOpen is returned while the processor is considered down
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrProbeInFlight is returned when the half-open probe slots are taken
	ErrProbeInFlight = errors.New("circuit breaker probe already in flight")
)

// CircuitBreakerConfig configures when a processor endpoint is taken out of rotation
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive transport failures that opens the circuit
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before allowing a probe
	OpenTimeout time.Duration
	// HalfOpenProbes is the number of concurrent probes allowed while half-open
	HalfOpenProbes uint32
}

// DefaultCircuitBreakerConfig returns the breaker settings used for all processors
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:    5,
		OpenTimeout:    30 * time.Second,
		HalfOpenProbes: 1,
	}
}

// CircuitBreaker stops calling a processor after repeated transport failures.
// Processor declines are not failures; only the transport reports to it.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  uint32
	probes    uint32
	changedAt time.Time
	config    CircuitBreakerConfig
	now       func() time.Time

	onStateChange func(BreakerState)
}

// NewCircuitBreaker creates a closed circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxFailures == 0 {
		config.MaxFailures = 1
	}
	if config.HalfOpenProbes == 0 {
		config.HalfOpenProbes = 1
	}
	return &CircuitBreaker{
		state:     BreakerClosed,
		changedAt: time.Now(),
		config:    config,
		now:       time.Now,
	}
}

// OnStateChange registers a hook called with the new state after every transition.
// The hook runs with the breaker lock held and must not call back into the breaker.
func (cb *CircuitBreaker) OnStateChange(fn func(BreakerState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Uncounted wraps err so Execute neither counts it as a failure nor as a
// success. Execute returns err itself to its caller.
func Uncounted(err error) error {
	if err == nil {
		return nil
	}
	return uncountedError{err: err}
}

type uncountedError struct{ err error }

func (e uncountedError) Error() string { return e.err.Error() }
func (e uncountedError) Unwrap() error { return e.err }

// Execute runs fn if the breaker allows it and records the outcome
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.allow(); err != nil {
		return err
	}
	err := fn()
	var skip uncountedError
	if errors.As(err, &skip) {
		cb.release()
		return skip.err
	}
	cb.record(err)
	return err
}

// State returns the current state
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset closes the circuit and clears the failure count
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transition(BreakerClosed)
	cb.failures = 0
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed:
		return nil
	case BreakerOpen:
		if cb.now().Sub(cb.changedAt) < cb.config.OpenTimeout {
			return ErrCircuitOpen
		}
		cb.transition(BreakerHalfOpen)
		cb.probes = 1
		return nil
	case BreakerHalfOpen:
		if cb.probes >= cb.config.HalfOpenProbes {
			return ErrProbeInFlight
		}
		cb.probes++
		return nil
	}
	return ErrCircuitOpen
}

// release frees a half-open probe slot without changing the state
func (cb *CircuitBreaker) release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == BreakerHalfOpen && cb.probes > 0 {
		cb.probes--
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		if cb.state == BreakerHalfOpen {
			cb.transition(BreakerClosed)
		}
		return
	}

	cb.failures++
	switch cb.state {
	case BreakerClosed:
		if cb.failures >= cb.config.MaxFailures {
			cb.transition(BreakerOpen)
		}
	case BreakerHalfOpen:
		cb.transition(BreakerOpen)
	}
}

func (cb *CircuitBreaker) transition(to BreakerState) {
	if cb.state == to {
		return
	}
	cb.state = to
	cb.changedAt = cb.now()
	cb.probes = 0
	if to != BreakerOpen {
		cb.failures = 0
	}
	if cb.onStateChange != nil {
		cb.onStateChange(to)
	}
}
