package credorax

import (
	"strings"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
)

// Authorization payload keys
const (
	AuthAuthorizationCode  = "authorization_code"
	AuthResponseID         = "response_id"
	AuthTransactionID      = "transaction_id"
	AuthPreviousRequestID  = "previous_request_id"
	AuthResponseReasonCode = "response_reason_code"
	AuthToken              = "token"
	AuthEcho               = "d2"
)

// parseBody splits the response into fields. Values are kept exactly as
// sent, still percent-encoded, and a value ends at the next '='.
func parseBody(body string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 3)
		value := ""
		if len(parts) > 1 {
			value = parts[1]
		}
		out[parts[0]] = value
	}
	return out
}

func (a *Adapter) buildResponse(body string) *ports.Response {
	params := parseBody(body)
	success := params["z2"] == ResultSuccess

	return &ports.Response{
		Success:       success,
		Message:       message(params, success),
		Params:        params,
		Authorization: authorization(params),
		Test:          a.config.Environment.IsTest(),
		ErrorCode:     params["z2"],
		CVVResult:     params["z14"],
		AVSResult:     params["z9"],
	}
}

// message is z3, with "(z2)" or "(z2,z6)" appended on failure
func message(params map[string]string, success bool) string {
	msg := params["z3"]
	if success {
		return msg
	}
	codes := params["z2"]
	if reason := params["z6"]; reason != "" {
		codes += "," + reason
	}
	if codes == "" {
		return msg
	}
	return msg + " (" + codes + ")"
}

func authorization(params map[string]string) ports.Authorization {
	auth := ports.Authorization{}
	put := func(key, field string) {
		if v := params[field]; v != "" {
			auth[key] = v
		}
	}
	put(AuthAuthorizationCode, "z4")
	put(AuthResponseID, "z1")
	put(AuthTransactionID, "z13")
	put(AuthPreviousRequestID, "a1")
	put(AuthResponseReasonCode, "z6")
	put(AuthToken, "g1")
	put(AuthEcho, "d2")
	return auth
}
