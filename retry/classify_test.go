package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	storerrors "github.com/jonwraymond/storops/errors"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Class
	}{
		{"nil", nil, ClassNonRetryable},
		{"plain error", errors.New("boom"), ClassNonRetryable},
		{"context canceled", context.Canceled, ClassCancelled},
		{"deadline exceeded", context.DeadlineExceeded, ClassCancelled},
		{"cancelled error", storerrors.NewCancelledError(context.Canceled), ClassCancelled},
		{"transport error", storerrors.NewTransportError("", errors.New("reset")), ClassTransient},
		{"service 500", &storerrors.ServiceError{StatusCode: 500}, ClassTransient},
		{"service 502", &storerrors.ServiceError{StatusCode: 502}, ClassTransient},
		{"service 504", &storerrors.ServiceError{StatusCode: 504}, ClassTransient},
		{"service 408", &storerrors.ServiceError{StatusCode: 408}, ClassTransient},
		{"service 429", &storerrors.ServiceError{StatusCode: 429}, ClassThrottling},
		{"service 503", &storerrors.ServiceError{StatusCode: 503}, ClassThrottling},
		{"service 400", &storerrors.ServiceError{StatusCode: 400}, ClassNonRetryable},
		{"service 403", &storerrors.ServiceError{StatusCode: 403}, ClassNonRetryable},
		{"service 404", &storerrors.ServiceError{StatusCode: 404}, ClassNonRetryable},
		{"service 501", &storerrors.ServiceError{StatusCode: 501}, ClassNonRetryable},
		{"validation error", storerrors.NewValidationError("cursor", "bad kind"), ClassNonRetryable},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.err); got != c.want {
				t.Errorf("Classify() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestClassifyAttempt_SecondaryNotFound(t *testing.T) {
	notFound := &storerrors.ServiceError{StatusCode: 404}

	t.Run("secondary of alternating mode is transient", func(t *testing.T) {
		rc := Context{
			Attempt:   1,
			LastError: notFound,
			Location:  Secondary,
			Mode:      PrimaryThenSecondary,
		}
		if got := ClassifyAttempt(rc); got != ClassTransient {
			t.Errorf("ClassifyAttempt() = %v, want ClassTransient", got)
		}
	})

	t.Run("primary stays non-retryable", func(t *testing.T) {
		rc := Context{
			Attempt:   1,
			LastError: notFound,
			Location:  Primary,
			Mode:      PrimaryThenSecondary,
		}
		if got := ClassifyAttempt(rc); got != ClassNonRetryable {
			t.Errorf("ClassifyAttempt() = %v, want ClassNonRetryable", got)
		}
	})

	t.Run("secondary-only stays non-retryable", func(t *testing.T) {
		rc := Context{
			Attempt:   1,
			LastError: notFound,
			Location:  Secondary,
			Mode:      SecondaryOnly,
		}
		if got := ClassifyAttempt(rc); got != ClassNonRetryable {
			t.Errorf("ClassifyAttempt() = %v, want ClassNonRetryable", got)
		}
	})
}

func TestClassString(t *testing.T) {
	cases := []struct {
		class Class
		want  string
	}{
		{ClassNonRetryable, "non-retryable"},
		{ClassTransient, "transient"},
		{ClassThrottling, "throttling"},
		{ClassCancelled, "cancelled"},
	}

	for _, c := range cases {
		if got := c.class.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)

	t.Run("delta seconds", func(t *testing.T) {
		d, ok := ParseRetryAfter("15", now)
		if !ok {
			t.Fatal("ParseRetryAfter(15) ok = false, want true")
		}
		if d != 15*time.Second {
			t.Errorf("ParseRetryAfter(15) = %v, want 15s", d)
		}
	})

	t.Run("http date", func(t *testing.T) {
		d, ok := ParseRetryAfter("Tue, 10 Feb 2026 12:00:30 GMT", now)
		if !ok {
			t.Fatal("ParseRetryAfter(date) ok = false, want true")
		}
		if d != 30*time.Second {
			t.Errorf("ParseRetryAfter(date) = %v, want 30s", d)
		}
	})

	t.Run("past date", func(t *testing.T) {
		if _, ok := ParseRetryAfter("Tue, 10 Feb 2026 11:00:00 GMT", now); ok {
			t.Error("ParseRetryAfter(past date) ok = true, want false")
		}
	})

	t.Run("negative seconds", func(t *testing.T) {
		if _, ok := ParseRetryAfter("-5", now); ok {
			t.Error("ParseRetryAfter(-5) ok = true, want false")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, ok := ParseRetryAfter("", now); ok {
			t.Error("ParseRetryAfter(empty) ok = true, want false")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, ok := ParseRetryAfter("soonish", now); ok {
			t.Error("ParseRetryAfter(garbage) ok = true, want false")
		}
	})
}
