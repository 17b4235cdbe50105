package econtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/card-gateways/pkg/encoding"
)

const xmlDeclaration = `<?xml version="1.0" encoding="shift_jis"?>`

// sjis encodes a UTF-8 fixture the way ECONTEXT sends it
func sjis(t *testing.T, s string) string {
	t.Helper()
	b, err := encoding.EncodeShiftJIS(s)
	require.NoError(t, err)
	return string(b)
}

func TestParseBody_ShiftJISDocument(t *testing.T) {
	body := sjis(t, xmlDeclaration+
		`<result><status>1</status><info>正常</info><infoCode>00000</infoCode>`+
		`<ecnToken>641d6b9d7c1b6b1e</ecnToken><shimukeCD>2S63046</shimukeCD></result>`)

	params, err := parseBody([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"status":    "1",
		"info":      "正常",
		"infocode":  "00000",
		"ecntoken":  "641d6b9d7c1b6b1e",
		"shimukecd": "2S63046",
	}, params)
}

func TestParseBody_FlattensNestedElements(t *testing.T) {
	body := sjis(t, xmlDeclaration+
		`<result><status>1</status>`+
		`<cardInfo><brandName>VISA</brandName><lastFour>1111</lastFour></cardInfo></result>`)

	params, err := parseBody([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "VISA", params["cardinfo_brandname"])
	assert.Equal(t, "1111", params["cardinfo_lastfour"])
	assert.NotContains(t, params, "cardinfo")
}

func TestParseBody_UnescapesHTMLEntities(t *testing.T) {
	body := xmlDeclaration + `<result><status>1</status><info>&#27491;&#24120;</info></result>`

	params, err := parseBody([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "正常", params["info"])
}

func TestParseBody_UTF8Declaration(t *testing.T) {
	body := `<?xml version="1.0" encoding="utf-8"?><result><status>-2</status><info>会員登録なし</info></result>`

	params, err := parseBody([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "会員登録なし", params["info"])
}

func TestParseBody_ResultNestedUnderRoot(t *testing.T) {
	body := sjis(t, xmlDeclaration+`<response><result><status>1</status></result></response>`)

	params, err := parseBody([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "1", params["status"])
}

func TestParseBody_NoResultElement(t *testing.T) {
	params, err := parseBody([]byte(xmlDeclaration + `<error>down</error>`))
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestParseBody_Malformed(t *testing.T) {
	_, err := parseBody([]byte("Service Unavailable"))
	require.Error(t, err)
}

func TestParseBody_Idempotent(t *testing.T) {
	body := []byte(sjis(t, xmlDeclaration+`<result><status>1</status><info>正常</info></result>`))

	first, err := parseBody(body)
	require.NoError(t, err)
	second, err := parseBody(body)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{"with info code", map[string]string{"status": "1", "info": "正常", "infocode": "00000"}, "正常(00000)"},
		{"without info code", map[string]string{"status": "1", "info": "正常"}, "正常"},
		{"decline", map[string]string{"status": "-7", "info": "カード与信失敗(02-00)", "infocode": "C1430"}, "カード与信失敗(02-00)(C1430)"},
		{"no status", map[string]string{"info": "ignored"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, message(tt.params))
		})
	}
}

func TestAuthorization_OmitsBlankEntries(t *testing.T) {
	auth := authorization(map[string]string{"status": "1"}, request{orderID: "1", paymtCode: PaymentCardNonMember})

	assert.Equal(t, "1", auth.Get(AuthPreviousOrderID))
	assert.Equal(t, "C10", auth.Get(AuthPreviousPaymtCode))
	assert.NotContains(t, auth, AuthEcnToken)
	assert.NotContains(t, auth, AuthUserToken)
	assert.NotContains(t, auth, AuthCardAcquirerCode)
}

func TestAuthorization_PrefersReturnedUserID(t *testing.T) {
	auth := authorization(map[string]string{"cduserid": "returned"}, request{userID: "sent"})
	assert.Equal(t, "returned", auth.Get(AuthUserToken))

	auth = authorization(map[string]string{}, request{userID: "sent"})
	assert.Equal(t, "sent", auth.Get(AuthUserToken))
}
