package ports

import "strconv"

// Address is a billing or shipping address
type Address struct {
	Name     string
	Company  string
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      string
	Country  string
	Phone    string
}

// RefundType selects the kind of credit a processor issues
type RefundType string

const (
	RefundBasicPostClearingCredit RefundType = "basic_post_clearing_credit"
	RefundCaptureVoid             RefundType = "capture"
	RefundSaleVoid                RefundType = "sale"
	RefundPostClearingCredit      RefundType = "post_clearing_credit"
)

// Options holds the per-call options understood by the adapters.
// Each adapter reads only the options its processor documents.
type Options struct {
	OrderID     string
	SessionID   string
	Description string
	Email       string
	IP          string
	Currency    string

	// Invoice is the merchant reference number
	Invoice string

	// Merchant overrides the statement descriptor prefix
	Merchant string

	BillingAddress *Address
	Address        *Address

	RefundType RefundType

	// Echo is sent back untouched by processors that support it (Credorax d2)
	Echo string

	CustomerID       string
	CustomerPassword string
	ItemID           string
	Note             string
	Country          string
	PaymentType      string
	PaymentCount     int
	TransactionID    string

	// SiteTransactionID is the merchant side id used by Another Lane voids
	SiteTransactionID string
}

// Billing returns the billing address, falling back to the generic address
func (o Options) Billing() *Address {
	if o.BillingAddress != nil {
		return o.BillingAddress
	}
	return o.Address
}

// Lookup returns the option value for a required-option name
func (o Options) Lookup(name string) (string, bool) {
	var v string
	switch name {
	case "order_id":
		v = o.OrderID
	case "session_id":
		v = o.SessionID
	case "description":
		v = o.Description
	case "email":
		v = o.Email
	case "ip":
		v = o.IP
	case "currency":
		v = o.Currency
	case "invoice":
		v = o.Invoice
	case "merchant":
		v = o.Merchant
	case "refund_type":
		v = string(o.RefundType)
	case "customer_id":
		v = o.CustomerID
	case "customer_password":
		v = o.CustomerPassword
	case "item_id":
		v = o.ItemID
	case "transaction_id":
		v = o.TransactionID
	case "payment_count":
		if o.PaymentCount > 0 {
			v = strconv.Itoa(o.PaymentCount)
		}
	default:
		return "", false
	}
	return v, v != ""
}
