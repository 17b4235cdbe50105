package main

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/card-gateways/internal/adapters/anotherlane"
	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
	"github.com/kevin07696/card-gateways/test/mocks"
)

func TestParseExpiry(t *testing.T) {
	month, year, err := parseExpiry("09/2030")
	require.NoError(t, err)
	assert.Equal(t, 9, month)
	assert.Equal(t, 2030, year)

	_, year, err = parseExpiry("12/31")
	require.NoError(t, err)
	assert.Equal(t, 2031, year)

	for _, bad := range []string{"", "2030-09", "13/2030", "09/xx"} {
		_, _, err := parseExpiry(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseAuthorization(t *testing.T) {
	auth, err := parseAuthorization("transaction_id=1403068210742, token=abc")
	require.NoError(t, err)
	assert.Equal(t, ports.Authorization{"transaction_id": "1403068210742", "token": "abc"}, auth)

	auth, err = parseAuthorization("")
	require.NoError(t, err)
	assert.Empty(t, auth)

	_, err = parseAuthorization("novalue")
	assert.Error(t, err)
}

func TestRequestSource(t *testing.T) {
	src, err := request{token: "member-1"}.source()
	require.NoError(t, err)
	assert.Equal(t, ports.TokenReference{Token: "member-1"}, src)

	src, err = request{cardNumber: "4111111111111111", expiry: "01/2030", cvv: "123"}.source()
	require.NoError(t, err)
	card, ok := src.(ports.CardPresent)
	require.True(t, ok)
	assert.Equal(t, 1, card.Card.Month)

	_, err = request{}.source()
	assert.Error(t, err)
}

func newAnotherLane(t *testing.T, client *mocks.MockHTTPClient) *anotherlane.Adapter {
	t.Helper()
	cfg := anotherlane.DefaultConfig(gateway.Sandbox)
	cfg.SiteID = "test"
	cfg.SitePassword = "test"
	adapter, err := anotherlane.NewAdapter(cfg, client, mocks.NewMockLogger())
	require.NoError(t, err)
	return adapter
}

func TestRun_Purchase(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(
		"state=1&TransactionId=1403068210742&msg=Approved",
		"state=1&TransactionId=1403068210742&msg=Approved",
	)
	gw := newAnotherLane(t, client)

	resp, err := run(context.Background(), gw, request{
		action:     "purchase",
		amount:     "210",
		cardNumber: "4000000000000000",
		expiry:     "09/2030",
		cvv:        "123",
		opts:       ports.Options{OrderID: "1"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, client.CallCount())
}

func TestRun_Status(t *testing.T) {
	client := mocks.NewSequenceHTTPClient("state=1&TransactionId=1&TransactionState=CANCEL&msg=")
	gw := newAnotherLane(t, client)

	resp, err := run(context.Background(), gw, request{action: "status", auth: "transaction_id=1"})
	require.NoError(t, err)
	assert.Equal(t, "CANCEL", resp.Params["TransactionState"])
}

func TestRun_Errors(t *testing.T) {
	gw := newAnotherLane(t, mocks.NewMockHTTPClient(nil))
	ctx := context.Background()

	_, err := run(ctx, gw, request{action: "purchase", amount: "abc", token: "x"})
	assert.Error(t, err)

	_, err = run(ctx, gw, request{action: "refund", auth: "transaction_id=1"})
	assert.True(t, errors.Is(err, pkgerrors.ErrNotSupported))

	_, err = run(ctx, gw, request{action: "unstore"})
	assert.EqualError(t, err, "gateway does not support unstore")

	_, err = run(ctx, gw, request{action: "settle"})
	assert.EqualError(t, err, `unknown action "settle"`)
}

func TestOptionalAmount(t *testing.T) {
	amount, err := optionalAmount("")
	require.NoError(t, err)
	assert.False(t, amount.Valid)

	amount, err = optionalAmount("12.50")
	require.NoError(t, err)
	assert.True(t, amount.Decimal.Equal(decimal.RequireFromString("12.5")))
}
