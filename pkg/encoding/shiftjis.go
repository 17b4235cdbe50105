package encoding

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ShiftJISContentType is the form content type ECONTEXT expects
const ShiftJISContentType = "application/x-www-form-urlencoded;charset=shift_jis"

// EncodeShiftJIS converts a UTF-8 string to Shift_JIS bytes.
// Runes with no Shift_JIS representation are an error.
func EncodeShiftJIS(s string) ([]byte, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode shift_jis: %w", err)
	}
	return out, nil
}

// DecodeShiftJIS converts Shift_JIS bytes to a UTF-8 string
func DecodeShiftJIS(b []byte) (string, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("decode shift_jis: %w", err)
	}
	return string(out), nil
}

// ShiftJISLen returns the length of s in Shift_JIS bytes.
// Half-width characters count 1, full-width characters count 2.
func ShiftJISLen(s string) (int, error) {
	b, err := EncodeShiftJIS(s)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// QueryEscapeShiftJIS percent-encodes the Shift_JIS bytes of s
func QueryEscapeShiftJIS(s string) (string, error) {
	b, err := EncodeShiftJIS(s)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(b)), nil
}

// CharsetReader is an xml.Decoder CharsetReader resolving WHATWG labels such
// as "shift_jis", "sjis" or "windows-31j" to a UTF-8 transcoding reader.
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || label == "utf-8" || label == "utf8" {
		return input, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
