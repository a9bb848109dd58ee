package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("LocationMode", "secondary endpoint required")

	if !IsConfiguration(err) {
		t.Error("IsConfiguration() = false, want true")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("errors.Is(err, ErrConfiguration) = false, want true")
	}
	want := "invalid configuration for LocationMode: secondary endpoint required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestConfigurationError_NoOption(t *testing.T) {
	err := NewConfigurationError("", "no endpoints configured")

	want := "invalid configuration: no endpoints configured"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportError("acct.table.store.example.net", cause)

	if !IsTransport(err) {
		t.Error("IsTransport() = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if IsService(err) {
		t.Error("IsService() = true, want false")
	}
}

func TestTransportError_Wrapped(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("attempt 2: %w", NewTransportError("", cause))

	if !IsTransport(err) {
		t.Error("IsTransport() through wrapping = false, want true")
	}
}

func TestServiceError(t *testing.T) {
	err := &ServiceError{
		StatusCode: 503,
		Code:       "ServerBusy",
		Message:    "The server is busy.",
		RequestID:  "d5c9f1",
		RetryAfter: 4 * time.Second,
	}

	if !IsService(err) {
		t.Error("IsService() = false, want true")
	}

	se, ok := AsService(fmt.Errorf("outer: %w", err))
	if !ok {
		t.Fatal("AsService() ok = false, want true")
	}
	if se.StatusCode != 503 {
		t.Errorf("StatusCode = %d, want 503", se.StatusCode)
	}
	if se.RetryAfter != 4*time.Second {
		t.Errorf("RetryAfter = %v, want 4s", se.RetryAfter)
	}

	want := "service returned 503 (ServerBusy): The server is busy. [request d5c9f1]"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCancelledError(t *testing.T) {
	err := NewCancelledError(context.Canceled)

	if !IsCancelled(err) {
		t.Error("IsCancelled() = false, want true")
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("errors.Is(err, context.Canceled) = false, want true")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("cursor", "token issued for kind \"tables\"")

	if !IsValidation(err) {
		t.Error("IsValidation() = false, want true")
	}
	if IsConfiguration(err) {
		t.Error("IsConfiguration() = true, want false")
	}
}

func TestClassesAreDisjoint(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"configuration", NewConfigurationError("x", "y")},
		{"transport", NewTransportError("", errors.New("eof"))},
		{"service", &ServiceError{StatusCode: 500}},
		{"cancelled", NewCancelledError(context.Canceled)},
		{"validation", NewValidationError("x", "y")},
	}

	checks := []struct {
		name string
		fn   func(error) bool
	}{
		{"configuration", IsConfiguration},
		{"transport", IsTransport},
		{"service", IsService},
		{"cancelled", IsCancelled},
		{"validation", IsValidation},
	}

	for _, c := range cases {
		for _, chk := range checks {
			got := chk.fn(c.err)
			want := c.name == chk.name
			if got != want {
				t.Errorf("%s error: Is%s = %v, want %v", c.name, chk.name, got, want)
			}
		}
	}
}

func TestAsService_NotService(t *testing.T) {
	if _, ok := AsService(errors.New("plain")); ok {
		t.Error("AsService(plain error) ok = true, want false")
	}
}
