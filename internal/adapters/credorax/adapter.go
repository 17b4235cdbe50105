// Package credorax implements the Credorax gateway: signed form posts with
// optional card-on-file tokens issued by the create-token operation.
package credorax

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
)

// GatewayName identifies Credorax in logs and metrics
const GatewayName = "credorax"

// Adapter implements ports.CardGateway for Credorax
type Adapter struct {
	config    *Config
	transport *gateway.Transport
	logger    ports.Logger
}

var _ ports.CardGateway = (*Adapter)(nil)

// NewAdapter creates a Credorax adapter
func NewAdapter(config *Config, httpClient ports.HTTPClient, logger ports.Logger) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{
		config:    config,
		transport: gateway.NewTransport(GatewayName, httpClient, logger, config.CircuitBreaker, gateway.WithRateLimit(config.RateLimit)),
		logger:    logger,
	}, nil
}

// Purchase runs a sale (O=1) with card details or a token sale (O=11)
func (a *Adapter) Purchase(ctx context.Context, amount decimal.Decimal, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpPurchase, opts, func() (*ports.Response, error) {
		return a.charge(ctx, OpSale, OpUseTokenSale, amount, source, opts)
	})
}

// Authorize runs an authorisation (O=2) or a token authorisation (O=12)
func (a *Adapter) Authorize(ctx context.Context, amount decimal.Decimal, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpAuthorize, opts, func() (*ports.Response, error) {
		return a.charge(ctx, OpAuthorisation, OpUseTokenAuth, amount, source, opts)
	})
}

func (a *Adapter) charge(ctx context.Context, cardOp, tokenOp Operation, amount decimal.Decimal, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	f := gateway.NewFields()

	switch src := ports.Resolve(source).(type) {
	case ports.CardPresent:
		if err := gateway.Requires(opts, "order_id", "email"); err != nil {
			return nil, err
		}
		f.Set("O", string(cardOp))
		a.addRequestID(f, opts)
		if err := a.addPayment(f, src.Card); err != nil {
			return nil, err
		}
		if err := a.addInvoice(f, gateway.Amount(amount), opts); err != nil {
			return nil, err
		}
		a.addCustomerData(f, opts)
		if err := a.addBillingAddress(f, opts); err != nil {
			return nil, err
		}

	case ports.TokenReference:
		if err := gateway.Requires(opts, "order_id"); err != nil {
			return nil, err
		}
		f.Set("O", string(tokenOp))
		a.addToken(f, src.Token)
		a.addRequestID(f, opts)
		if err := a.addInvoice(f, gateway.Amount(amount), opts); err != nil {
			return nil, err
		}
		a.addCustomerData(f, opts)
		if tokenOp == OpUseTokenAuth {
			if err := a.addBillingAddress(f, opts); err != nil {
				return nil, err
			}
		}

	default:
		return nil, pkgerrors.NewValidationError("payment", fmt.Sprintf("unsupported payment source %T", source))
	}

	a.addTracking(f, opts)
	a.addEcho(f, opts)
	return a.commit(ctx, f)
}

// Capture settles an authorisation. Token authorisations use O=13.
func (a *Adapter) Capture(ctx context.Context, amount decimal.NullDecimal, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpCapture, opts, func() (*ports.Response, error) {
		if err := gateway.Requires(opts, "order_id"); err != nil {
			return nil, err
		}
		f := gateway.NewFields()
		if token := auth.Get(AuthToken); token != "" {
			f.Set("O", string(OpUseTokenCapture))
			a.addToken(f, token)
		} else {
			f.Set("O", string(OpCapture))
		}
		a.addRequestID(f, opts)
		a.addCustomerData(f, opts)
		if err := a.addInvoice(f, amount, opts); err != nil {
			return nil, err
		}
		a.addPreviousRequest(f, auth)
		a.addTracking(f, opts)
		a.addEcho(f, opts)
		return a.commit(ctx, f)
	})
}

// Void cancels an authorisation. Token authorisations use O=14.
func (a *Adapter) Void(ctx context.Context, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpVoid, opts, func() (*ports.Response, error) {
		if err := gateway.Requires(opts, "order_id"); err != nil {
			return nil, err
		}
		f := gateway.NewFields()
		if token := auth.Get(AuthToken); token != "" {
			f.Set("O", string(OpTokenAuthVoid))
			a.addToken(f, token)
		} else {
			f.Set("O", string(OpAuthorisationVoid))
		}
		a.addRequestID(f, opts)
		a.addCustomerData(f, opts)
		a.addPreviousRequest(f, auth)
		a.addTracking(f, opts)
		a.addEcho(f, opts)
		return a.commit(ctx, f)
	})
}

// Refund issues the credit selected by opts.RefundType. The amount is not
// sent: Credorax credits the referenced transaction in full.
func (a *Adapter) Refund(ctx context.Context, amount decimal.NullDecimal, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpRefund, opts, func() (*ports.Response, error) {
		if err := gateway.Requires(opts, "order_id", "refund_type"); err != nil {
			return nil, err
		}
		op, ok := refundOperations[string(opts.RefundType)]
		if !ok {
			return nil, pkgerrors.NewValidationError("refund_type", fmt.Sprintf("unknown refund type %q", opts.RefundType))
		}

		f := gateway.NewFields()
		f.Set("O", string(op))
		if op == OpTokenReferralCredit {
			a.addToken(f, auth.Get(AuthToken))
		}
		a.addRequestID(f, opts)
		a.addCustomerData(f, opts)
		a.addPreviousRequest(f, auth)
		a.addTracking(f, opts)
		a.addEcho(f, opts)
		return a.commit(ctx, f)
	})
}

// Store creates a card-on-file token (O=10). The returned authorization
// carries the token for later token operations.
func (a *Adapter) Store(ctx context.Context, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpStore, opts, func() (*ports.Response, error) {
		card, ok := ports.Resolve(source).(ports.CardPresent)
		if !ok {
			return nil, pkgerrors.NewValidationError("payment", "store requires card details")
		}
		if err := gateway.Requires(opts, "order_id", "email"); err != nil {
			return nil, err
		}

		f := gateway.NewFields()
		f.Set("O", string(OpCreateToken))
		a.addRequestID(f, opts)
		// Tokenization is priced as a one minor unit authorisation
		oneUnit := decimal.New(1, -gateway.CurrencyExponent(a.currency(opts)))
		if err := a.addInvoice(f, gateway.Amount(oneUnit), opts); err != nil {
			return nil, err
		}
		if err := a.addPayment(f, card.Card); err != nil {
			return nil, err
		}
		a.addCustomerData(f, opts)
		if err := a.addBillingAddress(f, opts); err != nil {
			return nil, err
		}
		a.addTracking(f, opts)
		a.addEcho(f, opts)
		return a.commit(ctx, f)
	})
}

// Verify is not offered by Credorax
func (a *Adapter) Verify(ctx context.Context, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return nil, gateway.NotSupported(GatewayName, gateway.OpVerify)
}

// commit adds the merchant id and signature, posts the form and parses the reply
func (a *Adapter) commit(ctx context.Context, f *gateway.Fields) (*ports.Response, error) {
	f.Set("M", a.config.MerchantID)
	f.SetAlways(SignatureField, Sign(f, a.config.MD5CipherKey))

	op, _ := f.Get("O")
	body, err := a.transport.Post(ctx, Operation(op).String(), a.config.URL(), []byte(f.Encode()), gateway.FormContentType)
	if err != nil {
		return nil, err
	}
	return a.buildResponse(string(body)), nil
}
