// Package econtext implements the ECONTEXT card gateway. Requests are
// Shift_JIS form posts and replies are Shift_JIS XML documents.
package econtext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
	"github.com/kevin07696/card-gateways/pkg/encoding"
)

const (
	GatewayName = "econtext"
	currency    = "JPY"

	// maxItemNameBytes is the itemName limit in Shift_JIS bytes
	maxItemNameBytes = 22
)

// Adapter implements ports.CardGateway for ECONTEXT
type Adapter struct {
	config    *Config
	transport *gateway.Transport
	logger    ports.Logger
	now       func() time.Time
}

var _ ports.CardGateway = (*Adapter)(nil)

// NewAdapter creates an ECONTEXT adapter
func NewAdapter(config *Config, httpClient ports.HTTPClient, logger ports.Logger) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{
		config:    config,
		transport: gateway.NewTransport(GatewayName, httpClient, logger, config.CircuitBreaker, gateway.WithRateLimit(config.RateLimit)),
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Purchase runs a sale (fnc 10) with card details, or against a registered
// member when source is a token holding the member id.
func (a *Adapter) Purchase(ctx context.Context, amount decimal.Decimal, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpPurchase, opts, func() (*ports.Response, error) {
		return a.charge(ctx, FncSale, amount, source, opts)
	})
}

// Authorize runs an authorisation (fnc 08)
func (a *Adapter) Authorize(ctx context.Context, amount decimal.Decimal, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpAuthorize, opts, func() (*ports.Response, error) {
		return a.charge(ctx, FncAuthorize, amount, source, opts)
	})
}

func (a *Adapter) charge(ctx context.Context, fnc FunctionCode, amount decimal.Decimal, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	yen, err := gateway.MinorUnits(amount, currency)
	if err != nil {
		return nil, err
	}

	req := request{orderID: opts.OrderID}
	var card *ports.CreditCard

	switch src := ports.Resolve(source).(type) {
	case ports.CardPresent:
		if err := gateway.Requires(opts, "order_id", "description"); err != nil {
			return nil, err
		}
		req.paymtCode = PaymentCardNonMember
		card = &src.Card
	case ports.TokenReference:
		if err := gateway.Requires(opts, "order_id"); err != nil {
			return nil, err
		}
		if src.Token == "" {
			return nil, pkgerrors.NewValidationError("token", "member id is empty")
		}
		req.paymtCode = PaymentCardMembership
		req.userID = src.Token
	default:
		return nil, pkgerrors.NewValidationError("payment", fmt.Sprintf("unsupported payment source %T", source))
	}

	f := gateway.NewFields()
	f.Set("paymtCode", string(req.paymtCode))
	f.Set("fncCode", string(fnc))
	f.Set("orderID", opts.OrderID)
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = opts.OrderID
	}
	f.Set("sessionID", sessionID)
	f.Set("cduserID", req.userID)
	if err := addItemName(f, opts.Description); err != nil {
		return nil, err
	}
	f.Set("ordAmount", yen)
	f.Set("ordAmountTax", "0")
	f.Set("commission", "0")
	f.Set("ecnEntry", "0")
	a.addLanguage(f)
	if card != nil {
		addCard(f, *card)
	}
	return a.commit(ctx, fnc, f, req)
}

// Capture settles an authorisation (fnc 12). A nil amount captures the
// authorized amount.
func (a *Adapter) Capture(ctx context.Context, amount decimal.NullDecimal, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpCapture, opts, func() (*ports.Response, error) {
		yen, err := gateway.OptionalMinorUnits(amount, currency)
		if err != nil {
			return nil, err
		}
		f, req, err := previousOrder(FncCapture, auth, opts)
		if err != nil {
			return nil, err
		}
		f.Set("ordAmount", yen)
		f.Set("shipDate", a.now().UTC().Format("2006/01/02"))
		return a.commit(ctx, FncCapture, f, req)
	})
}

// Void cancels the referenced order (fnc 20)
func (a *Adapter) Void(ctx context.Context, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpVoid, opts, func() (*ports.Response, error) {
		return a.cancel(ctx, auth, opts)
	})
}

func (a *Adapter) cancel(ctx context.Context, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	f, req, err := previousOrder(FncCancelOrder, auth, opts)
	if err != nil {
		return nil, err
	}
	return a.commit(ctx, FncCancelOrder, f, req)
}

// Refund cancels the order when amount is nil. Otherwise the order's charge
// is changed to amount (fnc 19), which refunds the difference.
func (a *Adapter) Refund(ctx context.Context, amount decimal.NullDecimal, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpRefund, opts, func() (*ports.Response, error) {
		if !amount.Valid {
			return a.cancel(ctx, auth, opts)
		}
		yen, err := gateway.MinorUnits(amount.Decimal, currency)
		if err != nil {
			return nil, err
		}
		f, req, err := previousOrder(FncChangeChargeAmount, auth, opts)
		if err != nil {
			return nil, err
		}
		f.Set("ordAmount", yen)
		return a.commit(ctx, FncChangeChargeAmount, f, req)
	})
}

// Store registers the card under opts.CustomerID as a membership (C20/01).
// The member id is returned as the user_token authorization entry.
func (a *Adapter) Store(ctx context.Context, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpStore, opts, func() (*ports.Response, error) {
		card, ok := ports.Resolve(source).(ports.CardPresent)
		if !ok {
			return nil, pkgerrors.NewValidationError("payment", "store requires card details")
		}
		if err := gateway.Requires(opts, "customer_id"); err != nil {
			return nil, err
		}

		req := request{paymtCode: PaymentCardMembership, userID: opts.CustomerID}
		f := gateway.NewFields()
		f.Set("paymtCode", string(PaymentCardMembership))
		f.Set("fncCode", string(FncRegisterCard))
		f.Set("cduserID", opts.CustomerID)
		f.Set("retokURL", a.config.ReturnOKURL)
		f.Set("retngURL", a.config.ReturnNGURL)
		f.Set("ordAmount", "1")
		f.Set("ordAmountTax", "0")
		a.addLanguage(f)
		addCard(f, card.Card)
		return a.commit(ctx, FncRegisterCard, f, req)
	})
}

// Unstore deletes the card registered under customerID (C20/03)
func (a *Adapter) Unstore(ctx context.Context, customerID string, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, "unstore", opts, func() (*ports.Response, error) {
		if customerID == "" {
			return nil, pkgerrors.NewValidationError("customer_id", "missing required option")
		}
		req := request{paymtCode: PaymentCardMembership, userID: customerID}
		f := gateway.NewFields()
		f.Set("paymtCode", string(PaymentCardMembership))
		f.Set("fncCode", string(FncDeleteCard))
		f.Set("cduserID", customerID)
		return a.commit(ctx, FncDeleteCard, f, req)
	})
}

// Verify is not offered by ECONTEXT
func (a *Adapter) Verify(ctx context.Context, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return nil, gateway.NotSupported(GatewayName, gateway.OpVerify)
}

// commit prepends the shop credentials, posts the Shift_JIS form and parses
// the XML reply.
func (a *Adapter) commit(ctx context.Context, fnc FunctionCode, f *gateway.Fields, req request) (*ports.Response, error) {
	body := gateway.NewFields()
	body.Set("shopID", a.config.ShopID)
	body.Set("chkCode", a.config.CheckCode)
	for _, k := range f.Keys() {
		v, _ := f.Get(k)
		body.SetAlways(k, v)
	}

	encoded, err := body.EncodeWith(encoding.QueryEscapeShiftJIS)
	if err != nil {
		var fieldErr *gateway.FieldEncodingError
		if errors.As(err, &fieldErr) {
			return nil, pkgerrors.NewValidationError(fieldErr.Field, "contains characters that cannot be sent as Shift_JIS")
		}
		return nil, err
	}

	raw, err := a.transport.Post(ctx, fnc.String(), a.config.URL(), []byte(encoded), encoding.ShiftJISContentType)
	if err != nil {
		return nil, err
	}
	resp, err := a.buildResponse(raw, req)
	if err != nil {
		return nil, pkgerrors.NewPaymentError("INVALID_RESPONSE", err.Error(), pkgerrors.CategorySystemError, false)
	}
	return resp, nil
}

// previousOrder starts a follow-up request for the order in auth
func previousOrder(fnc FunctionCode, auth ports.Authorization, opts ports.Options) (*gateway.Fields, request, error) {
	req := request{
		orderID:   auth.Get(AuthPreviousOrderID),
		paymtCode: PaymentCode(auth.Get(AuthPreviousPaymtCode)),
		userID:    auth.Get(AuthUserToken),
	}
	if req.orderID == "" {
		req.orderID = opts.OrderID
	}
	if req.orderID == "" {
		return nil, req, pkgerrors.NewValidationError(AuthPreviousOrderID, "authorization has no order id")
	}
	if req.paymtCode == "" {
		req.paymtCode = PaymentCardNonMember
	}

	f := gateway.NewFields()
	f.Set("paymtCode", string(req.paymtCode))
	f.Set("fncCode", string(fnc))
	f.Set("orderID", req.orderID)
	if req.paymtCode == PaymentCardMembership {
		f.Set("cduserID", req.userID)
	}
	return f, req, nil
}

func (a *Adapter) addLanguage(f *gateway.Fields) {
	f.Set("Language", fmt.Sprintf("%d", a.config.Language))
}

func addItemName(f *gateway.Fields, name string) error {
	if name == "" {
		return nil
	}
	n, err := encoding.ShiftJISLen(name)
	if err != nil {
		return pkgerrors.NewValidationError("description", "contains characters that cannot be sent as Shift_JIS")
	}
	if n > maxItemNameBytes {
		return pkgerrors.NewValidationError("description", fmt.Sprintf("must be at most %d Shift_JIS bytes", maxItemNameBytes))
	}
	f.Set("itemName", name)
	return nil
}

func addCard(f *gateway.Fields, card ports.CreditCard) {
	f.Set("econCardno", card.Number)
	f.Set("cardExpdate", card.ExpiryYYYYMM())
	f.Set("payCnt", "00")
	f.Set("cd3secFlg", "0")
	if cvv := gateway.DigitsOnly(card.VerificationValue); cvv != "" {
		f.Set("CVV2", strings.Repeat("0", max(0, 4-len(cvv)))+cvv)
	}
}
