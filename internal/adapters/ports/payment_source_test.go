package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	card := CardPresent{Card: CreditCard{Number: "4111111111111111"}}
	token := TokenReference{Token: "TOKEN123"}
	var nilCard *CardPresent
	var nilToken *TokenReference

	tests := []struct {
		name   string
		source PaymentSource
		want   PaymentSource
	}{
		{"card value", card, card},
		{"token value", token, token},
		{"card pointer", &card, card},
		{"token pointer", &token, token},
		{"nil card pointer", nilCard, nil},
		{"nil token pointer", nilToken, nil},
		{"nil source", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.source))
		})
	}
}
