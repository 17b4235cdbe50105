package gateway

import (
	"fmt"
	"strings"
)

// Environment selects test or live processor endpoints
type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

// ParseEnvironment accepts "sandbox"/"test" and "production"/"live"
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sandbox", "test":
		return Sandbox, nil
	case "production", "live":
		return Production, nil
	}
	return "", fmt.Errorf("unknown environment %q", s)
}

// IsTest reports whether requests go to the processor's test endpoint
func (e Environment) IsTest() bool {
	return e != Production
}

// Operation names used in logs, metrics and not-supported errors
const (
	OpPurchase  = "purchase"
	OpAuthorize = "authorize"
	OpCapture   = "capture"
	OpVoid      = "void"
	OpRefund    = "refund"
	OpStore     = "store"
	OpVerify    = "verify"
)
