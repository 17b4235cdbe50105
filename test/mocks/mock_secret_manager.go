package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
)

// MockSecretManager serves secrets from an in-memory map
type MockSecretManager struct {
	mu      sync.Mutex
	secrets map[string]string
	Paths   []string
}

// NewMockSecretManager creates a secret manager holding secrets keyed by path
func NewMockSecretManager(secrets map[string]string) *MockSecretManager {
	if secrets == nil {
		secrets = map[string]string{}
	}
	return &MockSecretManager{secrets: secrets}
}

// GetSecret returns the secret stored under path
func (m *MockSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Paths = append(m.Paths, path)

	value, ok := m.secrets[path]
	if !ok {
		return nil, fmt.Errorf("secret not found: %s", path)
	}
	return &ports.Secret{Value: value, Version: "v1"}, nil
}
