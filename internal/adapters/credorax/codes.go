package credorax

import (
	"strings"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
)

// Operation is the Credorax operation code sent in field O
type Operation string

const (
	OpSale                Operation = "1"
	OpAuthorisation       Operation = "2"
	OpCapture             Operation = "3"
	OpAuthorisationVoid   Operation = "4"
	OpReferralCredit      Operation = "5"
	OpSaleVoid            Operation = "7"
	OpCaptureVoid         Operation = "9"
	OpCreateToken         Operation = "10"
	OpUseTokenSale        Operation = "11"
	OpUseTokenAuth        Operation = "12"
	OpUseTokenCapture     Operation = "13"
	OpTokenAuthVoid       Operation = "14"
	OpTokenReferralCredit Operation = "15"
)

var operationNames = map[Operation]string{
	OpSale:                "sale",
	OpAuthorisation:       "authorisation",
	OpCapture:             "capture",
	OpAuthorisationVoid:   "authorisation_void",
	OpReferralCredit:      "referral_credit",
	OpSaleVoid:            "sale_void",
	OpCaptureVoid:         "capture_void",
	OpCreateToken:         "create_token",
	OpUseTokenSale:        "use_token_sale",
	OpUseTokenAuth:        "use_token_auth",
	OpUseTokenCapture:     "use_token_capture",
	OpTokenAuthVoid:       "token_auth_void",
	OpTokenReferralCredit: "token_referral_credit",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "operation_" + string(o)
}

// Result codes returned in z2
const (
	ResultSuccess            = "0"
	ResultParameterMalformed = "-9"
)

// ResultCodeInfo describes a z2 result code
type ResultCodeInfo struct {
	Code        string
	Name        string
	Description string
}

var resultCodes = map[string]ResultCodeInfo{
	"-13": {"-13", "missing_valid_3d_secure_data", "Missing valid 3D Secure data"},
	"-12": {"-12", "missing_card_secure_code", "Missing card secure code"},
	"-11": {"-11", "currency_not_supported_by_merchant", "Currency not supported by merchant"},
	"-10": {"-10", "unclassified_error", "Unclassified error"},
	"-9":  {"-9", "parameter_malformed", "At least one input parameter is malformed"},
	"-8":  {"-8", "package_signature_malformed", "Package signature is malformed"},
	"-7":  {"-7", "no_response_from_gateway", "No response from gateway"},
	"-5":  {"-5", "transaction_rejected", "Transaction rejected"},
	"-3":  {"-3", "account_status_not_updated", "Account status not updated"},
	"-2":  {"-2", "account_does_not_exist", "Account does not exist"},
	"-1":  {"-1", "account_already_exists", "Account already exists"},
	"0":   {"0", "success", "Transaction has been executed successfully"},
	"1":   {"1", "transaction_denied", "Transaction denied"},
	"2":   {"2", "transaction_denied_high_fraud_risk", "Transaction denied, high fraud risk"},
	"03":  {"03", "transaction_denied_high_avs_risk", "Transaction denied, high AVS risk"},
	"04":  {"04", "transaction_denied_interchange_timeout", "Transaction denied, interchange timeout"},
	"05":  {"05", "transaction_declined", "Transaction declined"},
	"7":   {"7", "redirect_url_issued", "Redirect URL issued"},
	"9":   {"9", "transaction_denied_luhn_check_fail", "Transaction denied, Luhn check failed"},
	"10":  {"10", "transaction_partially_approved", "Transaction partially approved"},
	"100": {"100", "transaction_3d_enrolled", "Card enrolled in 3D Secure"},
}

// DescribeResult returns the meaning of a z2 code
func DescribeResult(code string) (ResultCodeInfo, bool) {
	info, ok := resultCodes[code]
	return info, ok
}

var brandCodes = map[string]string{
	"visa":    "1",
	"master":  "2",
	"maestro": "9",
}

// brandCode maps a brand name to the b2 code. Numeric values are treated as
// codes already and pass through; other brand names map to "0".
func brandCode(brand string) string {
	if gateway.IsDigits(brand) {
		return brand
	}
	if code, ok := brandCodes[strings.ToLower(brand)]; ok {
		return code
	}
	return "0"
}

// refundOperations maps a refund type to its operation code
var refundOperations = map[string]Operation{
	"basic_post_clearing_credit": OpReferralCredit,
	"capture":                    OpCaptureVoid,
	"sale":                       OpSaleVoid,
	"post_clearing_credit":       OpTokenReferralCredit,
}
