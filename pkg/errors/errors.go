package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryNetworkError   ErrorCategory = "network_error"
	CategoryGatewayError   ErrorCategory = "gateway_error"
	CategoryCircuitOpen    ErrorCategory = "circuit_open"
	CategorySystemError    ErrorCategory = "system_error"
	CategoryInvalidRequest ErrorCategory = "invalid_request"
)

// ErrNotSupported is matched by every NotSupportedError via errors.Is
var ErrNotSupported = errors.New("operation not supported")

// PaymentError represents a transport level failure talking to a processor.
// Processor declines are never reported as a PaymentError.
type PaymentError struct {
	Code           string
	Message        string
	GatewayMessage string
	IsRetriable    bool
	Category       ErrorCategory
	Details        map[string]interface{}
	Cause          error
}

func (e *PaymentError) Error() string {
	if e.GatewayMessage != "" {
		return fmt.Sprintf("%s: %s (gateway: %s)", e.Code, e.Message, e.GatewayMessage)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying transport error
func (e *PaymentError) Unwrap() error {
	return e.Cause
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, category ErrorCategory, retriable bool) *PaymentError {
	return &PaymentError{
		Code:        code,
		Message:     message,
		Category:    category,
		IsRetriable: retriable,
		Details:     make(map[string]interface{}),
	}
}

// NewConnectionError wraps a network failure such as a timeout or refused connection
func NewConnectionError(endpoint string, cause error) *PaymentError {
	err := NewPaymentError("NETWORK_ERROR", fmt.Sprintf("failed to reach %s", endpoint), CategoryNetworkError, true)
	err.Cause = cause
	err.Details["endpoint"] = endpoint
	return err
}

// NewResponseError reports a non-2xx HTTP status from a processor endpoint
func NewResponseError(endpoint string, statusCode int, body string) *PaymentError {
	code := "REQUEST_ERROR"
	category := CategoryInvalidRequest
	retriable := false
	if statusCode >= 500 {
		code = "GATEWAY_ERROR"
		category = CategoryGatewayError
		retriable = true
	}
	err := NewPaymentError(code, fmt.Sprintf("unexpected status %d from %s", statusCode, endpoint), category, retriable)
	err.GatewayMessage = body
	err.Details["endpoint"] = endpoint
	err.Details["status_code"] = statusCode
	return err
}

// IsConnectionError reports whether err is a transport failure rather than
// a validation problem or an unsupported operation.
func IsConnectionError(err error) bool {
	var pe *PaymentError
	if !errors.As(err, &pe) {
		return false
	}
	switch pe.Category {
	case CategoryNetworkError, CategoryGatewayError, CategoryCircuitOpen, CategoryInvalidRequest:
		return true
	}
	return false
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotSupportedError is returned for operations a gateway does not offer
type NotSupportedError struct {
	Gateway   string
	Operation string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s: %s is not supported", e.Gateway, e.Operation)
}

// Is lets errors.Is(err, ErrNotSupported) match
func (e *NotSupportedError) Is(target error) bool {
	return target == ErrNotSupported
}

// NewNotSupportedError creates a new not supported error
func NewNotSupportedError(gateway, operation string) *NotSupportedError {
	return &NotSupportedError{Gateway: gateway, Operation: operation}
}
