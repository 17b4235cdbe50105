package gateway

import (
	"fmt"
	"unicode/utf8"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
)

// Requires fails with a validation error naming the first missing option
func Requires(opts ports.Options, names ...string) error {
	for _, name := range names {
		if _, ok := opts.Lookup(name); !ok {
			return pkgerrors.NewValidationError(name, "missing required option")
		}
	}
	return nil
}

// MaxLength fails when value is longer than max characters
func MaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return pkgerrors.NewValidationError(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return nil
}

// IsDigits reports whether s is non-empty and contains only ASCII digits
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsAlphanumeric reports whether s contains only ASCII letters and digits
func IsAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// DigitsOnly strips every non-digit character
func DigitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// NotSupported returns the error for an operation a gateway does not offer
func NotSupported(gateway, operation string) error {
	return pkgerrors.NewNotSupportedError(gateway, operation)
}
