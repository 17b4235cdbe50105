package anotherlane

import (
	"strings"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
)

const stateApproved = "1"

// parseBody splits key=value pairs on '&'. A body spanning several lines is
// an error page or notice and is returned whole under "msg".
func parseBody(body string) map[string]string {
	if strings.Contains(body, "\n") {
		return map[string]string{"msg": body}
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		out[key] = value
	}
	return out
}

func buildResponse(body string, test bool) *ports.Response {
	params := parseBody(body)

	auth := ports.Authorization{}
	if id := params["TransactionId"]; id != "" {
		auth[AuthTransactionID] = id
	}

	return &ports.Response{
		Success:       params["state"] == stateApproved,
		Message:       params["msg"],
		Params:        params,
		Authorization: auth,
		Test:          test,
	}
}
