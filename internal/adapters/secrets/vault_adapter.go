package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
)

// VaultConfig contains configuration for HashiCorp Vault adapter
type VaultConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address string

	// Authentication method: "token", "approle", "kubernetes"
	AuthMethod string

	Token string

	RoleID   string
	SecretID string

	K8sTokenPath string
	K8sRole      string

	// Vault namespace (Vault Enterprise)
	Namespace string

	// KV secrets engine mount path (default: "secret")
	MountPath string

	// KV version: "v1" or "v2" (default: "v2")
	KVVersion string

	CacheTTL    time.Duration
	EnableCache bool

	TLSSkipVerify bool
}

// DefaultVaultConfig returns default configuration for Vault adapter
func DefaultVaultConfig(address string) *VaultConfig {
	return &VaultConfig{
		Address:      address,
		AuthMethod:   "token",
		MountPath:    "secret",
		KVVersion:    "v2",
		K8sTokenPath: "/var/run/secrets/kubernetes.io/serviceaccount/token",
		CacheTTL:     5 * time.Minute,
		EnableCache:  true,
	}
}

// logicalReader is the part of *vault.Logical the adapter reads through
type logicalReader interface {
	ReadWithContext(ctx context.Context, path string) (*vault.Secret, error)
}

// vaultAdapter implements the SecretManagerAdapter port for HashiCorp Vault
type vaultAdapter struct {
	logical logicalReader
	config  *VaultConfig
	logger  ports.Logger
	cache   *secretCache
}

// NewVaultAdapter creates a new HashiCorp Vault adapter
func NewVaultAdapter(ctx context.Context, cfg *VaultConfig, logger ports.Logger) (ports.SecretManagerAdapter, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSSkipVerify {
		if err := vaultConfig.ConfigureTLS(&vault.TLSConfig{Insecure: true}); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	if err := authenticateVault(ctx, client, cfg); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	logger.Info("Vault adapter initialized",
		ports.String("address", cfg.Address),
		ports.String("auth_method", cfg.AuthMethod),
		ports.String("mount_path", cfg.MountPath),
		ports.String("kv_version", cfg.KVVersion),
	)

	return newVaultAdapter(client.Logical(), cfg, logger), nil
}

func newVaultAdapter(logical logicalReader, cfg *VaultConfig, logger ports.Logger) *vaultAdapter {
	return &vaultAdapter{
		logical: logical,
		config:  cfg,
		logger:  logger,
		cache:   newSecretCache(cfg.EnableCache, cfg.CacheTTL),
	}
}

func authenticateVault(ctx context.Context, client *vault.Client, cfg *VaultConfig) error {
	switch cfg.AuthMethod {
	case "token":
		if cfg.Token == "" {
			return fmt.Errorf("token is required for token auth")
		}
		client.SetToken(cfg.Token)
		return nil

	case "approle":
		if cfg.RoleID == "" || cfg.SecretID == "" {
			return fmt.Errorf("role_id and secret_id are required for AppRole auth")
		}
		return login(ctx, client, "auth/approle/login", map[string]interface{}{
			"role_id":   cfg.RoleID,
			"secret_id": cfg.SecretID,
		})

	case "kubernetes":
		if cfg.K8sTokenPath == "" || cfg.K8sRole == "" {
			return fmt.Errorf("k8s_token_path and k8s_role are required for Kubernetes auth")
		}
		jwt, err := os.ReadFile(cfg.K8sTokenPath)
		if err != nil {
			return fmt.Errorf("failed to read k8s token: %w", err)
		}
		return login(ctx, client, "auth/kubernetes/login", map[string]interface{}{
			"jwt":  strings.TrimSpace(string(jwt)),
			"role": cfg.K8sRole,
		})

	default:
		return fmt.Errorf("unsupported auth method: %s", cfg.AuthMethod)
	}
}

func login(ctx context.Context, client *vault.Client, path string, data map[string]interface{}) error {
	resp, err := client.Logical().WriteWithContext(ctx, path, data)
	if err != nil {
		return fmt.Errorf("%s failed: %w", path, err)
	}
	if resp == nil || resp.Auth == nil {
		return fmt.Errorf("%s returned no auth info", path)
	}
	client.SetToken(resp.Auth.ClientToken)
	return nil
}

// GetSecret reads a KV secret. The "value" key is used unless the path ends
// in "#field", which selects that key instead.
func (a *vaultAdapter) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if cached := a.cache.get(path); cached != nil {
		a.logger.Debug("Secret retrieved from cache", ports.String("path", path))
		return cached, nil
	}

	name, field := splitField(path)
	if field == "" {
		field = "value"
	}

	var fullPath string
	if a.config.KVVersion == "v2" {
		fullPath = fmt.Sprintf("%s/data/%s", a.config.MountPath, name)
	} else {
		fullPath = fmt.Sprintf("%s/%s", a.config.MountPath, name)
	}

	a.logger.Info("Retrieving secret from Vault", ports.String("path", name))

	startTime := time.Now()
	secret, err := a.logical.ReadWithContext(ctx, fullPath)
	if err != nil {
		a.logger.Error("Failed to retrieve secret from Vault",
			ports.String("path", name),
			ports.Err(err),
		)
		return nil, fmt.Errorf("failed to read secret from Vault: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("secret not found: %s", name)
	}

	a.logger.Debug("Secret retrieved successfully",
		ports.String("path", name),
		ports.Duration("elapsed", time.Since(startTime)),
	)

	var secretData map[string]interface{}
	var version, createdTime string

	if a.config.KVVersion == "v2" {
		// KV v2 wraps data in "data" field
		data, ok := secret.Data["data"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid secret format from Vault")
		}
		secretData = data

		if metadata, ok := secret.Data["metadata"].(map[string]interface{}); ok {
			if v, ok := metadata["version"].(json.Number); ok {
				version = v.String()
			}
			if ct, ok := metadata["created_time"].(string); ok {
				createdTime = ct
			}
		}
	} else {
		secretData = secret.Data
		version = "1"
	}

	value, _ := secretData[field].(string)
	if value == "" {
		return nil, fmt.Errorf("secret %s has no value under %q", name, field)
	}

	result := &ports.Secret{
		Value:     value,
		Version:   version,
		CreatedAt: createdTime,
		Metadata:  make(map[string]string),
	}
	a.cache.set(path, result)
	return result, nil
}
