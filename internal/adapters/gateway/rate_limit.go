package gateway

import "golang.org/x/time/rate"

// RateLimitConfig caps outbound requests to one processor. A zero
// RequestsPerSecond leaves the transport unlimited.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// TransportOption customizes a Transport
type TransportOption func(*Transport)

// WithRateLimit makes every request wait for a limiter token before it is
// sent. The wait honours the request context.
func WithRateLimit(cfg RateLimitConfig) TransportOption {
	return func(t *Transport) {
		if cfg.RequestsPerSecond <= 0 {
			return
		}
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
}
