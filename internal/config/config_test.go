package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
)

const sampleYAML = `
environment: production
logger:
  level: debug
secrets:
  backend: local
  local_path: /etc/card-gateways
credorax:
  enabled: true
  merchant_id: M0001
  md5_cipher_key_path: credorax/cipher
  live_url: https://live.credorax.example/crax_gate/service/gateway
econtext:
  enabled: true
  shop_id: "123456"
  check_code_path: econtext/check
  live_url: https://www.econ.ne.jp/odr/rcv/rcv_odr.aspx
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, gateway.Production, cfg.GatewayEnvironment())
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "local", cfg.Secrets.Backend)
	assert.True(t, cfg.Credorax.Enabled)
	assert.Equal(t, "M0001", cfg.Credorax.MerchantID)
	assert.Equal(t, "credorax/cipher", cfg.Credorax.MD5CipherKeyPath)
	assert.Equal(t, "EUR", cfg.Credorax.DefaultCurrency)
	assert.True(t, cfg.Credorax.NamePadding)
	assert.Equal(t, "123456", cfg.Econtext.ShopID)
	assert.Equal(t, 1, cfg.Econtext.Language)
	assert.False(t, cfg.AnotherLane.Enabled)
	assert.Equal(t, 60*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, gateway.RateLimitConfig{Burst: 1}, cfg.RateLimit())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("CREDORAX_MERCHANT_ID", "M0002")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "M0002", cfg.Credorax.MerchantID)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("ANOTHERLANE_ENABLED", "true")
	t.Setenv("ANOTHERLANE_SITE_ID", "site")
	t.Setenv("ANOTHERLANE_SITE_PASSWORD", "pass")
	t.Setenv("BREAKER_MAX_FAILURES", "3")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, gateway.Sandbox, cfg.GatewayEnvironment())
	assert.Equal(t, "env", cfg.Secrets.Backend)
	assert.True(t, cfg.AnotherLane.Enabled)
	assert.Equal(t, "site", cfg.AnotherLane.SiteID)
	assert.Equal(t, gateway.CircuitBreakerConfig{
		MaxFailures:    3,
		OpenTimeout:    30 * time.Second,
		HalfOpenProbes: 1,
	}, cfg.CircuitBreaker())
	assert.Equal(t, 2.5, cfg.RateLimit().RequestsPerSecond)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: staging\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging")

	_, err = Load(writeConfig(t, "secrets:\n  backend: gcp\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secrets backend")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
