package econtext

import (
	"fmt"

	"github.com/kevin07696/card-gateways/internal/adapters/gateway"
)

// DefaultTestURL is the ECONTEXT order reception endpoint on the test site
const DefaultTestURL = "https://test.econ.ne.jp/odr/rcv/rcv_odr.aspx"

// Page language for ECONTEXT hosted screens
const (
	LanguageJapanese = 0
	LanguageEnglish  = 1
)

// Config contains ECONTEXT shop credentials and endpoints
type Config struct {
	ShopID    string
	CheckCode string

	Environment gateway.Environment
	TestURL     string
	// LiveURL is issued per shop and required in production
	LiveURL string

	Language int

	// Card registration requires return URLs even though the hosted page is not used
	ReturnOKURL string
	ReturnNGURL string

	CircuitBreaker gateway.CircuitBreakerConfig
	RateLimit      gateway.RateLimitConfig
}

// DefaultConfig returns the defaults for environment
func DefaultConfig(environment gateway.Environment) *Config {
	return &Config{
		Environment:    environment,
		TestURL:        DefaultTestURL,
		Language:       LanguageEnglish,
		ReturnOKURL:    "http://www.example.com",
		ReturnNGURL:    "http://www.example.com",
		CircuitBreaker: gateway.DefaultCircuitBreakerConfig(),
	}
}

// Validate checks credentials and endpoint selection
func (c *Config) Validate() error {
	if c.ShopID == "" {
		return fmt.Errorf("econtext: shop id is required")
	}
	if c.CheckCode == "" {
		return fmt.Errorf("econtext: check code is required")
	}
	if !c.Environment.IsTest() && c.LiveURL == "" {
		return fmt.Errorf("econtext: live url is required in production")
	}
	if c.Language != LanguageJapanese && c.Language != LanguageEnglish {
		return fmt.Errorf("econtext: language must be 0 (Japanese) or 1 (English)")
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
