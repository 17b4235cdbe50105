// Package config loads gateway credentials and runtime settings from an
// optional YAML file, overridden by environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
)

// Config holds all application configuration
type Config struct {
	Environment string            `yaml:"environment" env:"GATEWAY_ENVIRONMENT" env-default:"sandbox"`
	Logger      LoggerConfig      `yaml:"logger"`
	HTTP        HTTPConfig        `yaml:"http"`
	Breaker     BreakerConfig     `yaml:"circuit_breaker"`
	Limits      RateLimitConfig   `yaml:"rate_limit"`
	Secrets     SecretsConfig     `yaml:"secrets"`
	Credorax    CredoraxConfig    `yaml:"credorax"`
	AnotherLane AnotherLaneConfig `yaml:"anotherlane"`
	Econtext    EcontextConfig    `yaml:"econtext"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT" env-default:"false"`
}

// HTTPConfig holds the processor HTTP client settings
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"60s"`
}

// BreakerConfig configures the per-processor circuit breaker
type BreakerConfig struct {
	MaxFailures    uint32        `yaml:"max_failures" env:"BREAKER_MAX_FAILURES" env-default:"5"`
	OpenTimeout    time.Duration `yaml:"open_timeout" env:"BREAKER_OPEN_TIMEOUT" env-default:"30s"`
	HalfOpenProbes uint32        `yaml:"half_open_probes" env:"BREAKER_HALF_OPEN_PROBES" env-default:"1"`
}

// RateLimitConfig caps outbound requests per processor; 0 disables it
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS" env-default:"0"`
	Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"1"`
}

// SecretsConfig selects where *_path credentials are resolved.
// With the env backend the plain credential fields are used as given.
type SecretsConfig struct {
	Backend   string `yaml:"backend" env:"SECRETS_BACKEND" env-default:"env"`
	LocalPath string `yaml:"local_path" env:"SECRETS_LOCAL_PATH" env-default:"./secrets"`

	AWSRegion   string `yaml:"aws_region" env:"AWS_REGION" env-default:"ap-northeast-1"`
	AWSProfile  string `yaml:"aws_profile" env:"AWS_PROFILE"`
	AWSEndpoint string `yaml:"aws_endpoint" env:"AWS_SECRETS_ENDPOINT"`

	VaultAddress    string `yaml:"vault_address" env:"VAULT_ADDR" env-default:"http://127.0.0.1:8200"`
	VaultAuthMethod string `yaml:"vault_auth_method" env:"VAULT_AUTH_METHOD" env-default:"token"`
	VaultToken      string `yaml:"vault_token" env:"VAULT_TOKEN"`
	VaultRoleID     string `yaml:"vault_role_id" env:"VAULT_ROLE_ID"`
	VaultSecretID   string `yaml:"vault_secret_id" env:"VAULT_SECRET_ID"`
	VaultK8sRole    string `yaml:"vault_k8s_role" env:"VAULT_K8S_ROLE"`
	VaultNamespace  string `yaml:"vault_namespace" env:"VAULT_NAMESPACE"`
	VaultMountPath  string `yaml:"vault_mount_path" env:"VAULT_MOUNT_PATH" env-default:"secret"`

	CacheTTL time.Duration `yaml:"cache_ttl" env:"SECRETS_CACHE_TTL" env-default:"5m"`
}

// CredoraxConfig holds Credorax merchant settings
type CredoraxConfig struct {
	Enabled          bool   `yaml:"enabled" env:"CREDORAX_ENABLED" env-default:"false"`
	MerchantID       string `yaml:"merchant_id" env:"CREDORAX_MERCHANT_ID"`
	MD5CipherKey     string `yaml:"md5_cipher_key" env:"CREDORAX_MD5_CIPHER_KEY"`
	MD5CipherKeyPath string `yaml:"md5_cipher_key_path" env:"CREDORAX_MD5_CIPHER_KEY_PATH"`
	NameOnStatement  string `yaml:"name_on_statement" env:"CREDORAX_NAME_ON_STATEMENT"`
	LiveURL          string `yaml:"live_url" env:"CREDORAX_LIVE_URL"`
	DefaultCurrency  string `yaml:"default_currency" env:"CREDORAX_DEFAULT_CURRENCY" env-default:"EUR"`
	NamePadding      bool   `yaml:"cardholder_name_padding" env:"CREDORAX_NAME_PADDING" env-default:"true"`
	PaddingCharacter string `yaml:"padding_character" env:"CREDORAX_PADDING_CHARACTER" env-default:"-"`
}

// AnotherLaneConfig holds Another Lane site settings
type AnotherLaneConfig struct {
	Enabled          bool   `yaml:"enabled" env:"ANOTHERLANE_ENABLED" env-default:"false"`
	SiteID           string `yaml:"site_id" env:"ANOTHERLANE_SITE_ID"`
	SitePassword     string `yaml:"site_password" env:"ANOTHERLANE_SITE_PASSWORD"`
	SitePasswordPath string `yaml:"site_password_path" env:"ANOTHERLANE_SITE_PASSWORD_PATH"`
	BaseURL          string `yaml:"base_url" env:"ANOTHERLANE_BASE_URL" env-default:"https://credit.alij.ne.jp/service/gateway/"`
}

// EcontextConfig holds ECONTEXT shop settings
type EcontextConfig struct {
	Enabled       bool   `yaml:"enabled" env:"ECONTEXT_ENABLED" env-default:"false"`
	ShopID        string `yaml:"shop_id" env:"ECONTEXT_SHOP_ID"`
	CheckCode     string `yaml:"check_code" env:"ECONTEXT_CHECK_CODE"`
	CheckCodePath string `yaml:"check_code_path" env:"ECONTEXT_CHECK_CODE_PATH"`
	LiveURL       string `yaml:"live_url" env:"ECONTEXT_LIVE_URL"`
	Language      int    `yaml:"language" env:"ECONTEXT_LANGUAGE" env-default:"1"`
	ReturnOKURL   string `yaml:"return_ok_url" env:"ECONTEXT_RETURN_OK_URL" env-default:"http://www.example.com"`
	ReturnNGURL   string `yaml:"return_ng_url" env:"ECONTEXT_RETURN_NG_URL" env-default:"http://www.example.com"`
}

// Load reads path when it is set and the environment otherwise.
// Environment variables take precedence over YAML values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("load config: %w; %s", err, desc)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that do not depend on resolved secrets
func (c *Config) Validate() error {
	if _, err := gateway.ParseEnvironment(c.Environment); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Secrets.Backend {
	case "env", "local", "aws", "vault":
	default:
		return fmt.Errorf("config: unknown secrets backend %q", c.Secrets.Backend)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("config: http timeout must be positive")
	}
	return nil
}

// GatewayEnvironment returns the parsed processor environment
func (c *Config) GatewayEnvironment() gateway.Environment {
	env, _ := gateway.ParseEnvironment(c.Environment)
	return env
}

// CircuitBreaker converts the breaker settings for the gateway transport
func (c *Config) CircuitBreaker() gateway.CircuitBreakerConfig {
	return gateway.CircuitBreakerConfig{
		MaxFailures:    c.Breaker.MaxFailures,
		OpenTimeout:    c.Breaker.OpenTimeout,
		HalfOpenProbes: c.Breaker.HalfOpenProbes,
	}
}

// RateLimit converts the outbound rate limit for the gateway transport
func (c *Config) RateLimit() gateway.RateLimitConfig {
	return gateway.RateLimitConfig{
		RequestsPerSecond: c.Limits.RequestsPerSecond,
		Burst:             c.Limits.Burst,
	}
}
