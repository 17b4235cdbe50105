package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
)

// request carries the parsed command line for one gateway call
type request struct {
	action     string
	amount     string
	cardNumber string
	expiry     string
	cvv        string
	cardName   string
	token      string
	auth       string
	opts       ports.Options
}

// unstorer is implemented by gateways that can delete a stored card
type unstorer interface {
	Unstore(ctx context.Context, customerID string, opts ports.Options) (*ports.Response, error)
}

// statusQuerier is implemented by gateways that can report a transaction state
type statusQuerier interface {
	Status(ctx context.Context, auth ports.Authorization, opts ports.Options) (*ports.Response, error)
}

func run(ctx context.Context, gw ports.CardGateway, req request) (*ports.Response, error) {
	auth, err := parseAuthorization(req.auth)
	if err != nil {
		return nil, err
	}

	switch req.action {
	case "purchase", "authorize":
		amount, err := decimal.NewFromString(req.amount)
		if err != nil {
			return nil, fmt.Errorf("invalid -amount %q: %w", req.amount, err)
		}
		source, err := req.source()
		if err != nil {
			return nil, err
		}
		if req.action == "purchase" {
			return gw.Purchase(ctx, amount, source, req.opts)
		}
		return gw.Authorize(ctx, amount, source, req.opts)

	case "capture", "refund":
		amount, err := optionalAmount(req.amount)
		if err != nil {
			return nil, err
		}
		if req.action == "capture" {
			return gw.Capture(ctx, amount, auth, req.opts)
		}
		return gw.Refund(ctx, amount, auth, req.opts)

	case "void":
		return gw.Void(ctx, auth, req.opts)

	case "store", "verify":
		source, err := req.source()
		if err != nil {
			return nil, err
		}
		if req.action == "store" {
			return gw.Store(ctx, source, req.opts)
		}
		return gw.Verify(ctx, source, req.opts)

	case "unstore":
		u, ok := gw.(unstorer)
		if !ok {
			return nil, fmt.Errorf("gateway does not support unstore")
		}
		return u.Unstore(ctx, req.opts.CustomerID, req.opts)

	case "status":
		s, ok := gw.(statusQuerier)
		if !ok {
			return nil, fmt.Errorf("gateway does not support status")
		}
		return s.Status(ctx, auth, req.opts)
	}
	return nil, fmt.Errorf("unknown action %q", req.action)
}

// source builds a token source when -token is set and a card otherwise
func (r request) source() (ports.PaymentSource, error) {
	if r.token != "" {
		return ports.Token(r.token), nil
	}
	if r.cardNumber == "" {
		return nil, fmt.Errorf("-card or -token is required")
	}
	month, year, err := parseExpiry(r.expiry)
	if err != nil {
		return nil, err
	}
	return ports.Card(ports.CreditCard{
		Number:            r.cardNumber,
		Month:             month,
		Year:              year,
		VerificationValue: r.cvv,
		Name:              r.cardName,
	}), nil
}

// parseExpiry accepts MM/YYYY and MM/YY
func parseExpiry(s string) (int, int, error) {
	m, y, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("invalid -exp %q: want MM/YYYY", s)
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid expiry month %q", m)
	}
	year, err := strconv.Atoi(y)
	if err != nil || year < 0 {
		return 0, 0, fmt.Errorf("invalid expiry year %q", y)
	}
	if len(y) == 2 {
		year += 2000
	}
	return month, year, nil
}

// parseAuthorization reads "key=value,key=value" into an authorization
func parseAuthorization(s string) (ports.Authorization, error) {
	auth := ports.Authorization{}
	if strings.TrimSpace(s) == "" {
		return auth, nil
	}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid -auth entry %q: want key=value", pair)
		}
		auth[k] = strings.TrimSpace(v)
	}
	return auth, nil
}

func optionalAmount(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid -amount %q: %w", s, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
