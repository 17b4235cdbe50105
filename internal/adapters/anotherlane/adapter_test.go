package anotherlane

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
	"github.com/kevin07696/card-gateways/test/mocks"
)

const (
	successfulPurchaseResponse  = "state=1&TransactionId=1403068210742&msg=Approved"
	successfulAuthorizeResponse = "state=1&TransactionId=1403068210743&msg=Approved"
	successfulCaptureResponse   = "state=1&TransactionId=1403068210744&msg=Approved"
	failedPurchaseResponse      = "state=2&msg=CARD NO CANNOT BE USED."
	successfulCustomerResponse  = "state=1&msg=ｱﾘｶﾞﾄｳ ｺﾞｻﾞｲﾏｼﾀ(thanks)"
	successfulStatusResponse    = "state=1&TransactionId=1403068210742&TransactionState=CANCEL&msg="
)

func newTestAdapter(t *testing.T, client *mocks.MockHTTPClient) *Adapter {
	t.Helper()
	config := DefaultConfig(gateway.Sandbox)
	config.SiteID = "test"
	config.SitePassword = "test"
	adapter, err := NewAdapter(config, client, mocks.NewMockLogger())
	require.NoError(t, err)
	return adapter
}

func testCard() ports.CreditCard {
	return ports.CreditCard{
		Number:            "4000000000000000",
		Month:             9,
		Year:              2030,
		VerificationValue: "123",
		Name:              "Longbob Longsen",
	}
}

func testOptions() ports.Options {
	return ports.Options{
		CustomerID:       "customer_id",
		CustomerPassword: "password",
		Email:            "example@example.com",
	}
}

func query(t *testing.T, client *mocks.MockHTTPClient, call int) url.Values {
	t.Helper()
	require.Greater(t, client.CallCount(), call)
	return client.Calls[call].URL.Query()
}

func TestNewAdapter_RequiresCredentials(t *testing.T) {
	config := DefaultConfig(gateway.Sandbox)
	config.SiteID = "test"

	_, err := NewAdapter(config, mocks.NewMockHTTPClient(nil), mocks.NewMockLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site password")
}

func TestAuthorize(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(successfulAuthorizeResponse)
	adapter := newTestAdapter(t, client)

	resp, err := adapter.Authorize(context.Background(), decimal.NewFromInt(210), ports.Card(testCard()), testOptions())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, resp.Test)
	assert.Equal(t, "Approved", resp.Message)
	assert.Equal(t, "1403068210743", resp.Authorization[AuthTransactionID])

	require.Equal(t, 1, client.CallCount())
	req := client.Calls[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/service/gateway/credit.htm", req.URL.Path)

	expected := "SiteId=test&SitePass=test&Amount=210&cardName=Longbob+Longsen&cardNo=4000000000000000" +
		"&cardMonth=9&cardYear=2030&cvv2=123&CustomerId=customer_id&CustomerPass=password&itemId=" +
		"&Mail=example%40example.com"
	assert.Equal(t, expected, req.URL.RawQuery)
}

func TestPurchase_AuthorizesThenCaptures(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(successfulAuthorizeResponse, successfulCaptureResponse)
	adapter := newTestAdapter(t, client)

	resp, err := adapter.Purchase(context.Background(), decimal.NewFromInt(210), ports.Card(testCard()), testOptions())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "1403068210744", resp.Authorization[AuthTransactionID])

	require.Equal(t, 2, client.CallCount())
	assert.Equal(t, "/service/gateway/capture.htm", client.Calls[1].URL.Path)
	assert.Equal(t, "1403068210743", query(t, client, 1).Get("TransactionId"))
}

func TestPurchase_QuickCharge(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(successfulAuthorizeResponse, successfulCaptureResponse)
	adapter := newTestAdapter(t, client)
	opts := testOptions()
	opts.CustomerID = ""

	resp, err := adapter.Purchase(context.Background(), decimal.NewFromInt(210), ports.Token("customer_id"), opts)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "1403068210744", resp.Authorization[AuthTransactionID])

	sent := query(t, client, 0)
	assert.Equal(t, "customer_id", sent.Get("CustomerId"))
	assert.False(t, sent.Has("cardNo"))
}

func TestPurchase_Declined(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(failedPurchaseResponse)
	adapter := newTestAdapter(t, client)

	resp, err := adapter.Purchase(context.Background(), decimal.NewFromInt(210), ports.Card(testCard()), testOptions())
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, "CARD NO CANNOT BE USED.", resp.Message)
	assert.Empty(t, resp.Authorization)
	assert.Equal(t, 1, client.CallCount(), "declined authorization must not be captured")
}

func TestAuthorize_AddressAndMisc(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(successfulAuthorizeResponse)
	adapter := newTestAdapter(t, client)
	opts := testOptions()
	opts.BillingAddress = &ports.Address{
		Name:     "Longbob",
		Address1: "1-1-1 Nishishinjuku",
		Address2: "Floor 3",
		City:     "Shinjuku",
		State:    "Tokyo",
		Zip:      "163-6038",
		Country:  "JP",
		Phone:    "(03) 1234-5678",
	}
	opts.IP = "192.0.2.1"
	opts.Note = "gift"
	opts.PaymentType = "1"
	opts.PaymentCount = 3

	_, err := adapter.Authorize(context.Background(), decimal.NewFromInt(210), ports.Card(testCard()), opts)
	require.NoError(t, err)

	sent := query(t, client, 0)
	assert.Equal(t, "Shinjuku1-1-1 Nishishinjuku", sent.Get("adr1"))
	assert.Equal(t, "Tokyo", sent.Get("capital"))
	assert.Equal(t, "0312345678", sent.Get("tel"))
	assert.Equal(t, "JP", sent.Get("country"))
	assert.Equal(t, "192.0.2.1", sent.Get("ipaddr"))
	assert.Equal(t, "gift", sent.Get("note"))
	assert.Equal(t, "1", sent.Get("paymentType"))
	assert.Equal(t, "3", sent.Get("paymentCnt"))
}

func TestAuthorize_FractionalYenRejected(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(successfulAuthorizeResponse)
	adapter := newTestAdapter(t, client)

	_, err := adapter.Authorize(context.Background(), decimal.RequireFromString("210.5"), ports.Card(testCard()), testOptions())
	assert.True(t, pkgerrors.IsValidationError(err))
	assert.Equal(t, 0, client.CallCount())
}

func TestCaptureAndVoid(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(successfulCaptureResponse, successfulStatusResponse)
	adapter := newTestAdapter(t, client)
	ctx := context.Background()
	auth := ports.Authorization{AuthTransactionID: "1403068209641"}

	capture, err := adapter.Capture(ctx, decimal.NullDecimal{}, auth, ports.Options{})
	require.NoError(t, err)
	assert.Equal(t, "1403068210744", capture.Authorization[AuthTransactionID])

	void, err := adapter.Void(ctx, auth, ports.Options{SiteTransactionID: "site-1"})
	require.NoError(t, err)
	assert.True(t, void.Success)
	assert.Equal(t, "1403068210742", void.Authorization[AuthTransactionID])
	assert.Equal(t, "", void.Message)

	assert.Equal(t, "/service/gateway/void.htm", client.Calls[1].URL.Path)
	assert.Equal(t, "site-1", query(t, client, 1).Get("SiteTransactionId"))
}

func TestVoid_RequiresTransactionID(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(successfulStatusResponse)
	adapter := newTestAdapter(t, client)

	_, err := adapter.Void(context.Background(), ports.Authorization{}, ports.Options{})
	assert.True(t, pkgerrors.IsValidationError(err))
	assert.Equal(t, 0, client.CallCount())
}

func TestStatus(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(successfulStatusResponse)
	adapter := newTestAdapter(t, client)

	resp, err := adapter.Status(context.Background(), ports.Authorization{AuthTransactionID: "1403068210742"}, ports.Options{})
	require.NoError(t, err)

	assert.Equal(t, "CANCEL", resp.Params["TransactionState"])
	assert.Equal(t, "/service/gateway/get_status.htm", client.Calls[0].URL.Path)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("card change", func(t *testing.T) {
		client := mocks.NewSequenceHTTPClient(successfulCustomerResponse)
		adapter := newTestAdapter(t, client)

		resp, err := adapter.Update(ctx, ports.Card(testCard()), "", testOptions())
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "ｱﾘｶﾞﾄｳ ｺﾞｻﾞｲﾏｼﾀ(thanks)", resp.Message)
		assert.Equal(t, "/service/gateway/cust_change.htm", client.Calls[0].URL.Path)
		assert.Equal(t, "4000000000000000", query(t, client, 0).Get("cardNo"))
	})

	t.Run("mail change", func(t *testing.T) {
		client := mocks.NewSequenceHTTPClient(successfulPurchaseResponse)
		adapter := newTestAdapter(t, client)

		resp, err := adapter.Update(ctx, nil, "new-example@example.com", testOptions())
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "/service/gateway/cust_change_mail.htm", client.Calls[0].URL.Path)
		assert.Equal(t, "new-example@example.com", query(t, client, 0).Get("Mail"))
	})

	t.Run("requires customer credentials", func(t *testing.T) {
		client := mocks.NewSequenceHTTPClient(successfulPurchaseResponse)
		adapter := newTestAdapter(t, client)
		opts := testOptions()
		opts.CustomerPassword = ""

		_, err := adapter.Update(ctx, ports.Card(testCard()), "", opts)
		var ve *pkgerrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "customer_password", ve.Field)
		assert.Equal(t, 0, client.CallCount())
	})

	t.Run("nothing to update", func(t *testing.T) {
		client := mocks.NewSequenceHTTPClient(successfulPurchaseResponse)
		adapter := newTestAdapter(t, client)

		_, err := adapter.Update(ctx, nil, "", testOptions())
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.Equal(t, 0, client.CallCount())
	})
}

func TestUnsupportedOperations(t *testing.T) {
	client := mocks.NewSequenceHTTPClient(successfulPurchaseResponse)
	adapter := newTestAdapter(t, client)
	ctx := context.Background()

	_, err := adapter.Refund(ctx, decimal.NullDecimal{}, ports.Authorization{AuthTransactionID: "1"}, ports.Options{})
	assert.True(t, errors.Is(err, pkgerrors.ErrNotSupported))

	_, err = adapter.Store(ctx, ports.Card(testCard()), ports.Options{})
	assert.True(t, errors.Is(err, pkgerrors.ErrNotSupported))

	_, err = adapter.Verify(ctx, ports.Card(testCard()), ports.Options{})
	assert.True(t, errors.Is(err, pkgerrors.ErrNotSupported))

	assert.Equal(t, 0, client.CallCount())
}

func TestParseBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "approved",
			body: "state=1&TransactionId=1403068210742&msg=Approved",
			want: map[string]string{"state": "1", "TransactionId": "1403068210742", "msg": "Approved"},
		},
		{
			name: "value containing equals",
			body: "state=2&msg=a=b",
			want: map[string]string{"state": "2", "msg": "a=b"},
		},
		{
			name: "multi line body",
			body: "<html>\n<body>maintenance</body>\n</html>",
			want: map[string]string{"msg": "<html>\n<body>maintenance</body>\n</html>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBody(tt.body))
			assert.Equal(t, parseBody(tt.body), parseBody(tt.body))
		})
	}
}

func TestBuildResponse_MultiLineIsFailure(t *testing.T) {
	resp := buildResponse("Service Unavailable\nplease retry", true)

	assert.False(t, resp.Success)
	assert.Equal(t, "Service Unavailable\nplease retry", resp.Message)
}
