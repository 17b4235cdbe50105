package ports

import "fmt"

// PaymentSource is either a CardPresent or a TokenReference.
// The unexported marker method keeps the set of variants closed.
type PaymentSource interface {
	paymentSource()
}

// CreditCard is the caller-owned card value. Adapters only read it.
type CreditCard struct {
	Number            string
	Month             int
	Year              int
	VerificationValue string
	// Brand is a brand name like "visa" or "master", or a processor brand code
	Brand string
	Name  string
}

// CardPresent sends raw card details
type CardPresent struct {
	Card CreditCard
}

// TokenReference stands in for a card with an identifier the processor issued
// earlier: a card-on-file token or a member/customer id.
type TokenReference struct {
	Token string
}

func (CardPresent) paymentSource()    {}
func (TokenReference) paymentSource() {}

// Card wraps a credit card as a payment source
func Card(card CreditCard) PaymentSource {
	return CardPresent{Card: card}
}

// Token wraps a stored token or customer id as a payment source
func Token(token string) PaymentSource {
	return TokenReference{Token: token}
}

// Resolve returns source with pointer variants dereferenced so adapters can
// switch on the value types alone. A nil pointer resolves to nil.
func Resolve(source PaymentSource) PaymentSource {
	switch src := source.(type) {
	case *CardPresent:
		if src == nil {
			return nil
		}
		return *src
	case *TokenReference:
		if src == nil {
			return nil
		}
		return *src
	}
	return source
}

// ExpiryYYYYMM formats the expiry as yyyymm
func (c CreditCard) ExpiryYYYYMM() string {
	return fmt.Sprintf("%04d%02d", c.Year, c.Month)
}

// ShortYear returns the last two digits of the expiry year
func (c CreditCard) ShortYear() string {
	return fmt.Sprintf("%02d", c.Year%100)
}

// LastFour returns the last four digits of the card number
func (c CreditCard) LastFour() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}
