package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value (signing key, site password ...)
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManagerAdapter resolves processor credentials at startup.
// Path format depends on implementation:
//   - local: file path relative to the base directory
//   - AWS: "card-gateways/credorax/md5-cipher-key"
//   - Vault: "card-gateways/credorax" under the KV v2 mount
type SecretManagerAdapter interface {
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
