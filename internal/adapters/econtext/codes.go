package econtext

// PaymentCode is sent as paymtCode
type PaymentCode string

const (
	PaymentCash           PaymentCode = "A10"
	PaymentCardNonMember  PaymentCode = "C10"
	PaymentCardMembership PaymentCode = "C20"
)

// FunctionCode is sent as fncCode
type FunctionCode string

const (
	FncRegisterCard          FunctionCode = "01"
	FncUpdateCard            FunctionCode = "02"
	FncDeleteCard            FunctionCode = "03"
	FncCardReference         FunctionCode = "04"
	FncAuthorize             FunctionCode = "08"
	FncSale                  FunctionCode = "10"
	FncCapture               FunctionCode = "12"
	FncChangeChargeAmount    FunctionCode = "19"
	FncCancelOrder           FunctionCode = "20"
	FncMemberRegisterAuth    FunctionCode = "21"
	FncMemberRegisterCapture FunctionCode = "22"
	FncRegisterCardAuth      FunctionCode = "23"
	FncRegisterCardCapture   FunctionCode = "24"
	FncReauthorize           FunctionCode = "30"
)

var functionNames = map[FunctionCode]string{
	FncRegisterCard:          "register_card",
	FncUpdateCard:            "update_card",
	FncDeleteCard:            "delete_card",
	FncCardReference:         "card_reference",
	FncAuthorize:             "authorize",
	FncSale:                  "sale",
	FncCapture:               "capture",
	FncChangeChargeAmount:    "change_charge_amount",
	FncCancelOrder:           "cancel_order",
	FncMemberRegisterAuth:    "member_register_auth",
	FncMemberRegisterCapture: "member_register_capture",
	FncRegisterCardAuth:      "register_card_auth",
	FncRegisterCardCapture:   "register_card_capture",
	FncReauthorize:           "reauthorize",
}

func (f FunctionCode) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return "fnc_" + string(f)
}

// Status values returned in <status>
const (
	StatusSuccess            = "1"
	StatusRetryPossible      = "-1"
	StatusRequestFailed      = "-2"
	StatusEconFailed         = "-3"
	StatusAuthorizationError = "-7"
)
