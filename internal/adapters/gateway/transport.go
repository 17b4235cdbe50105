package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
	"github.com/kevin07696/card-gateways/pkg/observability"
)

// maxResponseBytes caps how much of a processor response is read
const maxResponseBytes = 1 << 20

// FormContentType is the content type of UTF-8 form posts
const FormContentType = "application/x-www-form-urlencoded"

// Transport performs the single HTTP round trip behind every gateway call.
// Network failures and non-2xx statuses become *errors.PaymentError; the
// response body is returned untouched for the gateway's parser.
type Transport struct {
	gateway    string
	httpClient ports.HTTPClient
	logger     ports.Logger
	breaker    *CircuitBreaker
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewTransport creates a transport for one gateway
func NewTransport(gateway string, httpClient ports.HTTPClient, logger ports.Logger, breakerConfig CircuitBreakerConfig, opts ...TransportOption) *Transport {
	breaker := NewCircuitBreaker(breakerConfig)
	breaker.OnStateChange(func(state BreakerState) {
		observability.SetCircuitBreakerState(gateway, int(state))
		logger.Warn("processor circuit breaker changed state",
			ports.String("gateway", gateway),
			ports.String("state", state.String()),
		)
	})
	observability.SetCircuitBreakerState(gateway, int(BreakerClosed))

	t := &Transport{
		gateway:    gateway,
		httpClient: httpClient,
		logger:     logger,
		breaker:    breaker,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Breaker exposes the circuit breaker for inspection
func (t *Transport) Breaker() *CircuitBreaker {
	return t.breaker
}

// Get issues a GET to endpoint with query appended
func (t *Transport) Get(ctx context.Context, action, endpoint, query string) ([]byte, error) {
	target := endpoint
	if query != "" {
		target = endpoint + "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return t.do(action, endpoint, req)
}

// Post issues a POST of body to endpoint
func (t *Transport) Post(ctx context.Context, action, endpoint string, body []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return t.do(action, endpoint, req)
}

func (t *Transport) do(action, endpoint string, req *http.Request) ([]byte, error) {
	t.logger.Debug("sending processor request",
		ports.String("gateway", t.gateway),
		ports.String("action", action),
		ports.String("method", req.Method),
		ports.String("endpoint", endpoint),
	)

	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			observability.RecordUnsentRequest(t.gateway, action, "rate_limited")
			return nil, pkgerrors.NewConnectionError(endpoint, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	start := t.now()
	var body []byte
	outcome := "ok"

	err := t.breaker.Execute(func() error {
		resp, err := t.httpClient.Do(req)
		if err != nil {
			return t.networkError(req, &outcome, pkgerrors.NewConnectionError(endpoint, err))
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return t.networkError(req, &outcome, pkgerrors.NewConnectionError(endpoint, fmt.Errorf("read response body: %w", err)))
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			outcome = "http_error"
			return pkgerrors.NewResponseError(endpoint, resp.StatusCode, string(body))
		}
		return nil
	})

	elapsed := t.now().Sub(start)
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrProbeInFlight) {
		outcome = "circuit_open"
		err = &pkgerrors.PaymentError{
			Code:        "CIRCUIT_OPEN",
			Message:     fmt.Sprintf("%s is temporarily unavailable", t.gateway),
			Category:    pkgerrors.CategoryCircuitOpen,
			IsRetriable: true,
			Cause:       err,
		}
	}
	observability.RecordProcessorRequest(t.gateway, action, outcome, elapsed)

	if err != nil {
		t.logger.Error("processor request failed",
			ports.String("gateway", t.gateway),
			ports.String("action", action),
			ports.Duration("elapsed", elapsed),
			ports.Err(err),
		)
		return nil, err
	}

	t.logger.Debug("processor response received",
		ports.String("gateway", t.gateway),
		ports.String("action", action),
		ports.Int("bytes", len(body)),
		ports.Duration("elapsed", elapsed),
	)
	return body, nil
}

// networkError classifies a failed round trip. When the caller's context
// ended first the processor is not at fault and the breaker ignores it.
func (t *Transport) networkError(req *http.Request, outcome *string, err error) error {
	if req.Context().Err() != nil {
		*outcome = "canceled"
		return Uncounted(err)
	}
	*outcome = "network_error"
	return err
}
