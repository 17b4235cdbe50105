package gateway

import (
	"net/url"
	"sort"

	"github.com/kevin07696/card-gateways/pkg/encoding"
)

// Fields is an insertion-ordered mapping of wire field names to values.
// Overwriting a key keeps its original position.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields creates an empty field set
func NewFields() *Fields {
	return &Fields{values: make(map[string]string, 16)}
}

// Set adds key unless value is empty
func (f *Fields) Set(key, value string) *Fields {
	if value == "" {
		return f
	}
	return f.SetAlways(key, value)
}

// SetAlways adds key even when value is empty, for fields the processor
// requires as explicit placeholders.
func (f *Fields) SetAlways(key, value string) *Fields {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
	return f
}

// Get returns the value for key
func (f *Fields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key was set
func (f *Fields) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Len returns the number of fields
func (f *Fields) Len() int {
	return len(f.keys)
}

// Keys returns the keys in insertion order
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// SortedKeys returns the keys in byte order
func (f *Fields) SortedKeys() []string {
	out := f.Keys()
	sort.Strings(out)
	return out
}

// Map returns a copy of the fields as a plain map
func (f *Fields) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// ValueEscaper percent-encodes one field value for the wire
type ValueEscaper func(value string) (string, error)

// QueryEscape is the default UTF-8 form escaper
func QueryEscape(value string) (string, error) {
	return url.QueryEscape(value), nil
}

// Encode renders key=value pairs joined by '&' in insertion order.
// Keys are written as-is; processor field names are plain ASCII.
func (f *Fields) Encode() string {
	out, _ := f.EncodeWith(QueryEscape)
	return out
}

// EncodeWith renders the fields using escape for every value
func (f *Fields) EncodeWith(escape ValueEscaper) (string, error) {
	buf := encoding.GetBuffer()
	defer encoding.PutBuffer(buf)

	for i, k := range f.keys {
		v, err := escape(f.values[k])
		if err != nil {
			return "", &FieldEncodingError{Field: k, Err: err}
		}
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(v)
	}
	return buf.String(), nil
}

// FieldEncodingError reports a value that could not be encoded for the wire
type FieldEncodingError struct {
	Field string
	Err   error
}

func (e *FieldEncodingError) Error() string {
	return "encode field " + e.Field + ": " + e.Err.Error()
}

func (e *FieldEncodingError) Unwrap() error {
	return e.Err
}
