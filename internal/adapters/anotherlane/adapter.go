// Package anotherlane implements the Another Lane (ALIJ) credit gateway for
// Japanese merchants. Every call is a GET with the request in the query string.
package anotherlane

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
)

const (
	GatewayName    = "anotherlane"
	DefaultBaseURL = "https://credit.alij.ne.jp/service/gateway/"
	currency       = "JPY"
)

// Action selects the gateway page a request is sent to
type Action string

const (
	ActionSale           Action = "credit.htm"
	ActionCustomerChange Action = "cust_change.htm"
	ActionCustomerMail   Action = "cust_change_mail.htm"
	ActionGetStatus      Action = "get_status.htm"
	ActionVoid           Action = "void.htm"
	ActionCapture        Action = "capture.htm"
)

func (a Action) String() string {
	return strings.TrimSuffix(string(a), ".htm")
}

// AuthTransactionID is the authorization payload key holding TransactionId
const AuthTransactionID = "transaction_id"

// Config contains Another Lane site credentials
type Config struct {
	SiteID       string
	SitePassword string
	Environment  gateway.Environment
	// BaseURL is the same host for test and live sites; the site id decides the mode
	BaseURL        string
	CircuitBreaker gateway.CircuitBreakerConfig
	RateLimit      gateway.RateLimitConfig
}

// DefaultConfig returns the defaults for environment
func DefaultConfig(environment gateway.Environment) *Config {
	return &Config{
		Environment:    environment,
		BaseURL:        DefaultBaseURL,
		CircuitBreaker: gateway.DefaultCircuitBreakerConfig(),
	}
}

// Validate checks the site credentials
func (c *Config) Validate() error {
	if c.SiteID == "" {
		return fmt.Errorf("anotherlane: site id is required")
	}
	if c.SitePassword == "" {
		return fmt.Errorf("anotherlane: site password is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("anotherlane: base url is required")
	}
	return nil
}

// Adapter implements ports.CardGateway for Another Lane
type Adapter struct {
	config    *Config
	transport *gateway.Transport
	logger    ports.Logger
}

var _ ports.CardGateway = (*Adapter)(nil)

// NewAdapter creates an Another Lane adapter
func NewAdapter(config *Config, httpClient ports.HTTPClient, logger ports.Logger) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cfg := *config
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	return &Adapter{
		config:    &cfg,
		transport: gateway.NewTransport(GatewayName, httpClient, logger, config.CircuitBreaker, gateway.WithRateLimit(config.RateLimit)),
		logger:    logger,
	}, nil
}

// Purchase authorizes and, when approved, captures the returned transaction.
// A declined authorization is returned as is.
func (a *Adapter) Purchase(ctx context.Context, amount decimal.Decimal, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpPurchase, opts, func() (*ports.Response, error) {
		auth, err := a.sale(ctx, amount, source, opts)
		if err != nil || !auth.Success {
			return auth, err
		}
		return a.capture(ctx, auth.Authorization)
	})
}

// Authorize sends a credit request with card details, or a quick charge
// against a registered customer when source is a token holding the customer id.
func (a *Adapter) Authorize(ctx context.Context, amount decimal.Decimal, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpAuthorize, opts, func() (*ports.Response, error) {
		return a.sale(ctx, amount, source, opts)
	})
}

func (a *Adapter) sale(ctx context.Context, amount decimal.Decimal, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	yen, err := gateway.MinorUnits(amount, currency)
	if err != nil {
		return nil, err
	}

	f := a.credentials()
	f.Set("Amount", yen)

	switch src := ports.Resolve(source).(type) {
	case ports.CardPresent:
		addCard(f, src.Card)
	case ports.TokenReference:
		if src.Token == "" {
			return nil, pkgerrors.NewValidationError("customer_id", "quick charge requires a customer id")
		}
		opts.CustomerID = src.Token
	default:
		return nil, pkgerrors.NewValidationError("payment", fmt.Sprintf("unsupported payment source %T", source))
	}

	addAddress(f, opts.Billing())
	addCustomer(f, opts)
	f.SetAlways("itemId", opts.ItemID)
	f.Set("TransactionId", opts.TransactionID)
	f.Set("note", opts.Note)
	f.Set("ipaddr", opts.IP)
	f.Set("country", opts.Country)
	f.Set("Mail", opts.Email)
	f.Set("paymentType", opts.PaymentType)
	if opts.PaymentCount > 0 {
		f.Set("paymentCnt", strconv.Itoa(opts.PaymentCount))
	}
	return a.commit(ctx, ActionSale, f)
}

// Capture settles the referenced transaction. Another Lane always captures
// the authorized amount, so amount is ignored.
func (a *Adapter) Capture(ctx context.Context, amount decimal.NullDecimal, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpCapture, opts, func() (*ports.Response, error) {
		return a.capture(ctx, auth)
	})
}

func (a *Adapter) capture(ctx context.Context, auth ports.Authorization) (*ports.Response, error) {
	f := a.credentials()
	if err := setTransactionID(f, auth); err != nil {
		return nil, err
	}
	return a.commit(ctx, ActionCapture, f)
}

// Void cancels the referenced transaction
func (a *Adapter) Void(ctx context.Context, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, gateway.OpVoid, opts, func() (*ports.Response, error) {
		f := a.credentials()
		if err := setTransactionID(f, auth); err != nil {
			return nil, err
		}
		f.Set("SiteTransactionId", opts.SiteTransactionID)
		return a.commit(ctx, ActionVoid, f)
	})
}

// Status queries the state of the referenced transaction
func (a *Adapter) Status(ctx context.Context, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, "status", opts, func() (*ports.Response, error) {
		f := a.credentials()
		if err := setTransactionID(f, auth); err != nil {
			return nil, err
		}
		return a.commit(ctx, ActionGetStatus, f)
	})
}

// Update changes the card or the mail address of a registered customer.
// A card source takes precedence over mail.
func (a *Adapter) Update(ctx context.Context, source ports.PaymentSource, mail string, opts ports.Options) (*ports.Response, error) {
	return gateway.Track(a.logger, GatewayName, "update", opts, func() (*ports.Response, error) {
		if err := gateway.Requires(opts, "customer_id", "customer_password"); err != nil {
			return nil, err
		}
		f := a.credentials()
		addCustomer(f, opts)

		if card, ok := ports.Resolve(source).(ports.CardPresent); ok {
			addCard(f, card.Card)
			return a.commit(ctx, ActionCustomerChange, f)
		}
		if mail == "" {
			return nil, pkgerrors.NewValidationError("mail", "update requires a card or a mail address")
		}
		f.Set("Mail", mail)
		return a.commit(ctx, ActionCustomerMail, f)
	})
}

// Refund is not offered by Another Lane
func (a *Adapter) Refund(ctx context.Context, amount decimal.NullDecimal, auth ports.Authorization, opts ports.Options) (*ports.Response, error) {
	return nil, gateway.NotSupported(GatewayName, gateway.OpRefund)
}

// Store is not offered; customers are registered on their first sale
func (a *Adapter) Store(ctx context.Context, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return nil, gateway.NotSupported(GatewayName, gateway.OpStore)
}

// Verify is not offered by Another Lane
func (a *Adapter) Verify(ctx context.Context, source ports.PaymentSource, opts ports.Options) (*ports.Response, error) {
	return nil, gateway.NotSupported(GatewayName, gateway.OpVerify)
}

func (a *Adapter) credentials() *gateway.Fields {
	f := gateway.NewFields()
	f.Set("SiteId", a.config.SiteID)
	f.Set("SitePass", a.config.SitePassword)
	return f
}

func (a *Adapter) commit(ctx context.Context, action Action, f *gateway.Fields) (*ports.Response, error) {
	body, err := a.transport.Get(ctx, action.String(), a.config.BaseURL+string(action), f.Encode())
	if err != nil {
		return nil, err
	}
	return buildResponse(string(body), a.config.Environment.IsTest()), nil
}

func setTransactionID(f *gateway.Fields, auth ports.Authorization) error {
	id := auth.Get(AuthTransactionID)
	if id == "" {
		return pkgerrors.NewValidationError(AuthTransactionID, "authorization has no transaction id")
	}
	f.Set("TransactionId", id)
	return nil
}

func addCard(f *gateway.Fields, card ports.CreditCard) {
	f.Set("cardName", card.Name)
	f.Set("cardNo", card.Number)
	f.Set("cardMonth", strconv.Itoa(card.Month))
	f.Set("cardYear", strconv.Itoa(card.Year))
	f.Set("cvv2", card.VerificationValue)
}

func addAddress(f *gateway.Fields, addr *ports.Address) {
	if addr == nil {
		return
	}
	f.Set("zip", addr.Zip)
	f.Set("capital", addr.State)
	f.Set("adr1", addr.City+addr.Address1)
	f.Set("adr2", addr.Address2)
	f.Set("name", addr.Name)
	f.Set("tel", gateway.DigitsOnly(addr.Phone))
	f.Set("country", addr.Country)
}

func addCustomer(f *gateway.Fields, opts ports.Options) {
	f.Set("CustomerId", opts.CustomerID)
	f.Set("CustomerPass", opts.CustomerPassword)
}
