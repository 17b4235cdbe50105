package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_InsertionOrder(t *testing.T) {
	f := NewFields()
	f.Set("b", "2").Set("a", "1").Set("c", "3")
	f.Set("b", "two")

	assert.Equal(t, []string{"b", "a", "c"}, f.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, f.SortedKeys())
	assert.Equal(t, "b=two&a=1&c=3", f.Encode())
}

func TestFields_SetSkipsEmpty(t *testing.T) {
	f := NewFields()
	f.Set("empty", "")
	f.SetAlways("placeholder", "")

	assert.False(t, f.Has("empty"))
	assert.True(t, f.Has("placeholder"))
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, "placeholder=", f.Encode())
}

func TestFields_EncodeEscapesValues(t *testing.T) {
	f := NewFields().Set("name", "Longbob Longsen").Set("url", "http://a.b/?c=d&e")
	assert.Equal(t, "name=Longbob+Longsen&url=http%3A%2F%2Fa.b%2F%3Fc%3Dd%26e", f.Encode())
}

func TestFields_EncodeWithReportsField(t *testing.T) {
	boom := errors.New("boom")
	f := NewFields().Set("ok", "x").Set("bad", "y")

	_, err := f.EncodeWith(func(v string) (string, error) {
		if v == "y" {
			return "", boom
		}
		return v, nil
	})
	require.Error(t, err)

	var fieldErr *FieldEncodingError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "bad", fieldErr.Field)
	assert.True(t, errors.Is(err, boom))
}

func TestFields_MapIsACopy(t *testing.T) {
	f := NewFields().Set("a", "1")
	m := f.Map()
	m["a"] = "changed"

	v, ok := f.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}
