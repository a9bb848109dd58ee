package errors

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the storops error taxonomy. Typed errors below
// match these through errors.Is so callers can branch on the class
// without caring about the concrete type.
var (
	// ErrConfiguration marks invalid or contradictory options detected
	// before any network call.
	ErrConfiguration = errors.New("storops: invalid configuration")

	// ErrTransport marks a connection-level failure.
	ErrTransport = errors.New("storops: transport failure")

	// ErrService marks a non-2xx response carrying a server error code.
	ErrService = errors.New("storops: service error")

	// ErrCancelled marks caller-initiated cancellation.
	ErrCancelled = errors.New("storops: operation cancelled")

	// ErrValidation marks malformed caller input, such as a continuation
	// token presented to the wrong listing kind.
	ErrValidation = errors.New("storops: validation failed")
)

// ConfigurationError reports an option combination that can never
// succeed. It is surfaced before any request is sent and is not retried.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("invalid configuration for %s: %s", e.Option, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// TransportError wraps a connection-level failure from the HTTP
// transport. Transport failures are retryable per policy.
type TransportError struct {
	Host string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("transport failure contacting %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError reports a non-2xx response from the storage service.
// RetryAfter is zero unless the service suggested a wait.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
	RetryAfter time.Duration
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("service returned %d", e.StatusCode)
	if e.Code != "" {
		msg += fmt.Sprintf(" (%s)", e.Code)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RequestID != "" {
		msg += fmt.Sprintf(" [request %s]", e.RequestID)
	}
	return msg
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}

// CancelledError wraps a context cancellation or deadline expiry.
// Cancellation is terminal regardless of retry eligibility.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("operation cancelled: %v", e.Err)
}

func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewConfigurationError creates a ConfigurationError for the named option.
func NewConfigurationError(option, reason string) error {
	return &ConfigurationError{Option: option, Reason: reason}
}

// NewTransportError wraps err as a TransportError for the given host.
func NewTransportError(host string, err error) error {
	return &TransportError{Host: host, Err: err}
}

// NewCancelledError wraps a context error as a CancelledError.
func NewCancelledError(err error) error {
	return &CancelledError{Err: err}
}

// NewValidationError creates a ValidationError for the named field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsService reports whether err is a service error.
func IsService(err error) bool {
	return errors.Is(err, ErrService)
}

// IsCancelled reports whether err is a cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// AsService unwraps err to a ServiceError if one is in the chain.
func AsService(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
