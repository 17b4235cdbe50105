package gateway

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
)

// currencyExponents lists ISO 4217 currencies whose minor unit is not 2
var currencyExponents = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// CurrencyExponent returns the number of minor-unit digits for currency
func CurrencyExponent(currency string) int32 {
	if exp, ok := currencyExponents[strings.ToUpper(currency)]; ok {
		return exp
	}
	return 2
}

// MinorUnits formats a major-unit amount as an integer count of the
// currency's minor unit: 100.00 EUR is "10000", 500 JPY is "500".
func MinorUnits(amount decimal.Decimal, currency string) (string, error) {
	if amount.IsNegative() {
		return "", pkgerrors.NewValidationError("amount", "must not be negative")
	}
	shifted := amount.Shift(CurrencyExponent(currency))
	if !shifted.Equal(shifted.Truncate(0)) {
		return "", pkgerrors.NewValidationError("amount", "has more precision than "+strings.ToUpper(currency)+" allows")
	}
	return shifted.Truncate(0).String(), nil
}

// OptionalMinorUnits formats amount when it is set and returns "" otherwise
func OptionalMinorUnits(amount decimal.NullDecimal, currency string) (string, error) {
	if !amount.Valid {
		return "", nil
	}
	return MinorUnits(amount.Decimal, currency)
}

// Amount wraps a decimal as a set optional amount
func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
