package credorax

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
)

const (
	minNameLength        = 5
	maxDescriptionLength = 13
	maxMerchantLength    = 25
	maxStateLength       = 3
	defaultIP            = "1.1.1.1"
)

func (a *Adapter) addRequestID(f *gateway.Fields, opts ports.Options) {
	f.Set("a1", opts.OrderID)
}

func (a *Adapter) addToken(f *gateway.Fields, token string) {
	f.Set("g1", token)
}

func (a *Adapter) addCustomerData(f *gateway.Fields, opts ports.Options) {
	f.Set("c3", opts.Email)
	ip := opts.IP
	if ip == "" {
		ip = defaultIP
	}
	f.Set("d1", ip)
}

func (a *Adapter) addBillingAddress(f *gateway.Fields, opts ports.Options) error {
	addr := opts.Billing()
	if addr == nil {
		return nil
	}
	if len(addr.State) > maxStateLength || !gateway.IsAlphanumeric(addr.State) {
		return pkgerrors.NewValidationError("billing_address.state", "must be at most 3 alphanumeric characters")
	}
	f.Set("c7", addr.City)
	f.Set("c8", addr.State)
	f.Set("c9", addr.Country)
	f.Set("c10", addr.Zip)
	return nil
}

// addInvoice sets the amount, currency and statement descriptor.
// The descriptor is only sent with a description.
func (a *Adapter) addInvoice(f *gateway.Fields, amount decimal.NullDecimal, opts ports.Options) error {
	currency := a.currency(opts)
	minor, err := gateway.OptionalMinorUnits(amount, currency)
	if err != nil {
		return err
	}
	f.Set("a4", minor)
	f.Set("a5", opts.Currency)

	if opts.Description == "" {
		return nil
	}
	if err := gateway.MaxLength("description", opts.Description, maxDescriptionLength); err != nil {
		return err
	}
	dba := a.config.NameOnStatement
	if opts.Merchant != "" {
		if err := gateway.MaxLength("merchant", opts.Merchant, maxMerchantLength); err != nil {
			return err
		}
		dba = opts.Merchant
	}
	f.Set("i2", dba+"*"+opts.Description)
	return nil
}

func (a *Adapter) addPayment(f *gateway.Fields, card ports.CreditCard) error {
	if card.Brand != "" {
		f.Set("b2", brandCode(card.Brand))
	}

	name, err := a.cardholderName(card.Name)
	if err != nil {
		return err
	}
	if len(card.VerificationValue) != 3 || !gateway.IsDigits(card.VerificationValue) {
		return pkgerrors.NewValidationError("verification_value", "must be exactly 3 digits")
	}

	f.Set("b1", card.Number)
	f.Set("b3", fmt.Sprintf("%02d", card.Month))
	f.Set("b4", card.ShortYear())
	f.Set("b5", card.VerificationValue)
	f.Set("c1", name)
	return nil
}

// cardholderName trims and pads the name when padding is enabled, otherwise
// it rejects names shorter than the processor minimum.
func (a *Adapter) cardholderName(name string) (string, error) {
	if !a.config.CardholderNamePadding {
		if utf8.RuneCountInString(name) < minNameLength {
			return "", pkgerrors.NewValidationError("name", fmt.Sprintf("must be at least %d characters", minNameLength))
		}
		return name, nil
	}
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < minNameLength {
		name += strings.Repeat(a.config.PaddingCharacter, minNameLength-n)
	}
	return name, nil
}

// addPreviousRequest references the original transaction. Credorax rejects
// a missing g2..g4 parameter, so all three are always sent.
func (a *Adapter) addPreviousRequest(f *gateway.Fields, auth ports.Authorization) {
	f.SetAlways("g2", auth.Get(AuthResponseID))
	f.SetAlways("g3", auth.Get(AuthAuthorizationCode))
	f.SetAlways("g4", auth.Get(AuthPreviousRequestID))
}

func (a *Adapter) addTracking(f *gateway.Fields, opts ports.Options) {
	f.Set("h9", opts.Invoice)
}

func (a *Adapter) addEcho(f *gateway.Fields, opts ports.Options) {
	f.Set("d2", opts.Echo)
}

func (a *Adapter) currency(opts ports.Options) string {
	if opts.Currency != "" {
		return opts.Currency
	}
	return a.config.DefaultCurrency
}
