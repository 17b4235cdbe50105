package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
)

func TestRequires(t *testing.T) {
	opts := ports.Options{OrderID: "1", Email: "a@b.c"}
	require.NoError(t, Requires(opts, "order_id", "email"))

	err := Requires(opts, "order_id", "description", "ip")
	require.Error(t, err)

	var vErr *pkgerrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "description", vErr.Field)
}

func TestMaxLength(t *testing.T) {
	assert.NoError(t, MaxLength("state", "NY", 3))
	assert.NoError(t, MaxLength("name", "東京都", 3))
	assert.Error(t, MaxLength("state", "ABCD", 3))
}

func TestCharacterClasses(t *testing.T) {
	assert.True(t, IsDigits("0123"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("12a"))

	assert.True(t, IsAlphanumeric("NY1"))
	assert.False(t, IsAlphanumeric("N-Y"))

	assert.Equal(t, "0312345678", DigitsOnly("03-1234-5678"))
}

func TestNotSupported(t *testing.T) {
	err := NotSupported("econtext", OpVerify)
	assert.True(t, errors.Is(err, pkgerrors.ErrNotSupported))
	assert.Contains(t, err.Error(), "verify")
}

func TestParseEnvironment(t *testing.T) {
	for _, s := range []string{"", "sandbox", "TEST"} {
		env, err := ParseEnvironment(s)
		require.NoError(t, err)
		assert.True(t, env.IsTest())
	}
	for _, s := range []string{"production", "live"} {
		env, err := ParseEnvironment(s)
		require.NoError(t, err)
		assert.Equal(t, Production, env)
	}
	_, err := ParseEnvironment("staging")
	assert.Error(t, err)
}
