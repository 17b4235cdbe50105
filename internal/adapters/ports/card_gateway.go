package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// CardGateway is the operation surface shared by every processor adapter.
//
// Precondition failures return a *errors.ValidationError before any network
// call. Processor declines come back as a Response with Success=false and a
// nil error. Only transport failures are returned as *errors.PaymentError.
type CardGateway interface {
	// Purchase authorizes and settles in one step
	Purchase(ctx context.Context, amount decimal.Decimal, source PaymentSource, opts Options) (*Response, error)

	// Authorize reserves funds without settling
	Authorize(ctx context.Context, amount decimal.Decimal, source PaymentSource, opts Options) (*Response, error)

	// Capture settles a previous authorization. An invalid amount captures the full authorization.
	Capture(ctx context.Context, amount decimal.NullDecimal, auth Authorization, opts Options) (*Response, error)

	// Void cancels a previous transaction before settlement
	Void(ctx context.Context, auth Authorization, opts Options) (*Response, error)

	// Refund credits a previous transaction. Amount semantics are processor specific.
	Refund(ctx context.Context, amount decimal.NullDecimal, auth Authorization, opts Options) (*Response, error)

	// Store registers a card with the processor and returns a reusable token
	Store(ctx context.Context, source PaymentSource, opts Options) (*Response, error)

	// Verify is not offered by any processor adapter in this repository
	Verify(ctx context.Context, source PaymentSource, opts Options) (*Response, error)
}

// Authorization carries the processor identifiers needed to reference a
// transaction in a later call. Callers pass it back unmodified.
type Authorization map[string]string

// Get returns the value for key or empty string
func (a Authorization) Get(key string) string {
	if a == nil {
		return ""
	}
	return a[key]
}

// Response is the result envelope returned by every gateway operation
type Response struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	Params        map[string]string `json:"params"`
	Authorization Authorization     `json:"authorization,omitempty"`
	Test          bool              `json:"test"`
	ErrorCode     string            `json:"error_code,omitempty"`
	CVVResult     string            `json:"cvv_result,omitempty"`
	AVSResult     string            `json:"avs_result,omitempty"`
}
