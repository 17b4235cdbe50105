package credorax

import (
	"fmt"
	"unicode/utf8"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
)

// DefaultTestURL is the Credorax integration console endpoint
const DefaultTestURL = "https://intconsole.credorax.com/intenv/service/gateway"

// Config contains Credorax merchant credentials and endpoints
type Config struct {
	MerchantID      string
	MD5CipherKey    string
	NameOnStatement string

	Environment gateway.Environment
	TestURL     string
	// LiveURL is issued per merchant and required in production
	LiveURL string

	DefaultCurrency string

	// CardholderNamePadding right-pads short cardholder names instead of rejecting them
	CardholderNamePadding bool
	PaddingCharacter      string

	CircuitBreaker gateway.CircuitBreakerConfig
	RateLimit      gateway.RateLimitConfig
}

// DefaultConfig returns the defaults for environment; credentials still need to be set
func DefaultConfig(environment gateway.Environment) *Config {
	return &Config{
		Environment:           environment,
		TestURL:               DefaultTestURL,
		DefaultCurrency:       "EUR",
		CardholderNamePadding: true,
		PaddingCharacter:      "-",
		CircuitBreaker:        gateway.DefaultCircuitBreakerConfig(),
	}
}

// Validate checks credentials and endpoint selection
func (c *Config) Validate() error {
	if c.MerchantID == "" {
		return fmt.Errorf("credorax: merchant id is required")
	}
	if c.MD5CipherKey == "" {
		return fmt.Errorf("credorax: md5 cipher key is required")
	}
	if c.NameOnStatement == "" {
		return fmt.Errorf("credorax: name on statement is required")
	}
	if !c.Environment.IsTest() && c.LiveURL == "" {
		return fmt.Errorf("credorax: live url is required in production")
	}
	if c.CardholderNamePadding && utf8.RuneCountInString(c.PaddingCharacter) != 1 {
		return fmt.Errorf("credorax: padding character must be a single character")
	}
	return nil
}

// URL returns the endpoint for the configured environment
func (c *Config) URL() string {
	if c.Environment.IsTest() {
		return c.TestURL
	}
	return c.LiveURL
}
