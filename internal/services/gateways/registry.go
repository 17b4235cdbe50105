// Package gateways builds the configured card gateway adapters and resolves
// their credentials through the secret manager.
package gateways

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kevin07696/card-gateways/internal/adapters/anotherlane"
	"github.com/kevin07696/card-gateways/internal/adapters/credorax"
	"github.com/kevin07696/card-gateways/internal/adapters/econtext"
	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	"github.com/kevin07696/card-gateways/internal/adapters/secrets"
	"github.com/kevin07696/card-gateways/internal/config"
)

// ErrUnknownGateway is returned by Get for a gateway that is not configured
var ErrUnknownGateway = errors.New("gateway not configured")

// Registry holds one adapter per enabled gateway. Adapters are safe for
// concurrent use, so a registry is built once at startup.
type Registry struct {
	gateways map[string]ports.CardGateway
	logger   ports.Logger
}

// NewSecretManager returns the backend selected by cfg.Backend, or nil for
// the env backend where credentials are taken from config as given.
func NewSecretManager(ctx context.Context, cfg config.SecretsConfig, logger ports.Logger) (ports.SecretManagerAdapter, error) {
	switch cfg.Backend {
	case "env", "":
		return nil, nil
	case "local":
		return secrets.NewLocalSecretManager(cfg.LocalPath, logger), nil
	case "aws":
		awsCfg := secrets.DefaultAWSSecretsManagerConfig(cfg.AWSRegion)
		awsCfg.Profile = cfg.AWSProfile
		awsCfg.Endpoint = cfg.AWSEndpoint
		awsCfg.CacheTTL = cfg.CacheTTL
		return secrets.NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)
	case "vault":
		vaultCfg := secrets.DefaultVaultConfig(cfg.VaultAddress)
		vaultCfg.AuthMethod = cfg.VaultAuthMethod
		vaultCfg.Token = cfg.VaultToken
		vaultCfg.RoleID = cfg.VaultRoleID
		vaultCfg.SecretID = cfg.VaultSecretID
		vaultCfg.K8sRole = cfg.VaultK8sRole
		vaultCfg.Namespace = cfg.VaultNamespace
		vaultCfg.MountPath = cfg.VaultMountPath
		vaultCfg.CacheTTL = cfg.CacheTTL
		return secrets.NewVaultAdapter(ctx, vaultCfg, logger)
	}
	return nil, fmt.Errorf("unknown secrets backend %q", cfg.Backend)
}

// NewRegistry builds an adapter for every enabled gateway in cfg.
// secretManager may be nil when no *_path credential is configured.
func NewRegistry(ctx context.Context, cfg *config.Config, secretManager ports.SecretManagerAdapter, httpClient ports.HTTPClient, logger ports.Logger) (*Registry, error) {
	r := &Registry{
		gateways: make(map[string]ports.CardGateway),
		logger:   logger,
	}
	resolver := &credentialResolver{secretManager: secretManager}
	env := cfg.GatewayEnvironment()

	if cfg.Credorax.Enabled {
		key, err := resolver.resolve(ctx, cfg.Credorax.MD5CipherKey, cfg.Credorax.MD5CipherKeyPath)
		if err != nil {
			return nil, fmt.Errorf("credorax md5 cipher key: %w", err)
		}
		c := credorax.DefaultConfig(env)
		c.MerchantID = cfg.Credorax.MerchantID
		c.MD5CipherKey = key
		c.NameOnStatement = cfg.Credorax.NameOnStatement
		c.LiveURL = cfg.Credorax.LiveURL
		c.DefaultCurrency = cfg.Credorax.DefaultCurrency
		c.CardholderNamePadding = cfg.Credorax.NamePadding
		c.PaddingCharacter = cfg.Credorax.PaddingCharacter
		c.CircuitBreaker = cfg.CircuitBreaker()
		c.RateLimit = cfg.RateLimit()

		adapter, err := credorax.NewAdapter(c, httpClient, logger)
		if err != nil {
			return nil, err
		}
		r.gateways[credorax.GatewayName] = adapter
	}

	if cfg.AnotherLane.Enabled {
		password, err := resolver.resolve(ctx, cfg.AnotherLane.SitePassword, cfg.AnotherLane.SitePasswordPath)
		if err != nil {
			return nil, fmt.Errorf("anotherlane site password: %w", err)
		}
		c := anotherlane.DefaultConfig(env)
		c.SiteID = cfg.AnotherLane.SiteID
		c.SitePassword = password
		c.BaseURL = cfg.AnotherLane.BaseURL
		c.CircuitBreaker = cfg.CircuitBreaker()
		c.RateLimit = cfg.RateLimit()

		adapter, err := anotherlane.NewAdapter(c, httpClient, logger)
		if err != nil {
			return nil, err
		}
		r.gateways[anotherlane.GatewayName] = adapter
	}

	if cfg.Econtext.Enabled {
		checkCode, err := resolver.resolve(ctx, cfg.Econtext.CheckCode, cfg.Econtext.CheckCodePath)
		if err != nil {
			return nil, fmt.Errorf("econtext check code: %w", err)
		}
		c := econtext.DefaultConfig(env)
		c.ShopID = cfg.Econtext.ShopID
		c.CheckCode = checkCode
		c.LiveURL = cfg.Econtext.LiveURL
		c.Language = cfg.Econtext.Language
		c.ReturnOKURL = cfg.Econtext.ReturnOKURL
		c.ReturnNGURL = cfg.Econtext.ReturnNGURL
		c.CircuitBreaker = cfg.CircuitBreaker()
		c.RateLimit = cfg.RateLimit()

		adapter, err := econtext.NewAdapter(c, httpClient, logger)
		if err != nil {
			return nil, err
		}
		r.gateways[econtext.GatewayName] = adapter
	}

	logger.Info("gateway registry initialized",
		ports.String("environment", string(env)),
		ports.Int("gateways", len(r.gateways)),
	)
	return r, nil
}

// Get returns the adapter registered under name
func (r *Registry) Get(name string) (ports.CardGateway, error) {
	gw, ok := r.gateways[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGateway, name)
	}
	return gw, nil
}

// Names returns the configured gateway names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type credentialResolver struct {
	secretManager ports.SecretManagerAdapter
}

// resolve prefers the secret at path and falls back to the plain value
func (c *credentialResolver) resolve(ctx context.Context, plain, path string) (string, error) {
	if path == "" {
		return plain, nil
	}
	if c.secretManager == nil {
		return "", fmt.Errorf("secret path %q configured but no secrets backend is enabled", path)
	}
	secret, err := c.secretManager.GetSecret(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to get secret: %w", err)
	}
	return secret.Value, nil
}
