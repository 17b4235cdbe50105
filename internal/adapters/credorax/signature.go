package credorax

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
)

// SignatureField holds the package signature
const SignatureField = "K"

// unsafeCharacters are removed from every value before signing
var unsafeCharacters = strings.NewReplacer(
	"<", "",
	">", "",
	"“", "",
	"‘", "",
	"(", "",
	")", "",
	`\`, "",
)

func sanitize(value string) string {
	return strings.TrimSpace(unsafeCharacters.Replace(value))
}

// Sign computes the package signature: sanitized values in byte-sorted key
// order, followed by the cipher key, MD5, lowercase hex. K itself is excluded.
func Sign(fields *gateway.Fields, cipherKey string) string {
	var b strings.Builder
	for _, key := range fields.SortedKeys() {
		if key == SignatureField {
			continue
		}
		v, _ := fields.Get(key)
		b.WriteString(sanitize(v))
	}
	b.WriteString(cipherKey)

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// VerifySignature reports whether the K field matches the other fields
func VerifySignature(fields *gateway.Fields, cipherKey string) bool {
	got, ok := fields.Get(SignatureField)
	if !ok {
		return false
	}
	expected := Sign(fields, cipherKey)
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}
