package retry

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	storerrors "github.com/jonwraymond/storops/errors"
)

// Class is the retry-relevant classification of a failed attempt.
type Class int

const (
	// ClassNonRetryable failures will not succeed on retry.
	ClassNonRetryable Class = iota
	// ClassTransient failures are likely to succeed on retry.
	ClassTransient
	// ClassThrottling failures carry a server-suggested wait.
	ClassThrottling
	// ClassCancelled failures come from caller cancellation and end the
	// operation immediately.
	ClassCancelled
)

func (c Class) String() string {
	switch c {
	case ClassNonRetryable:
		return "non-retryable"
	case ClassTransient:
		return "transient"
	case ClassThrottling:
		return "throttling"
	case ClassCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Classify maps an error to its retry class without attempt context.
func Classify(err error) Class {
	if err == nil {
		return ClassNonRetryable
	}
	if storerrors.IsCancelled(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassCancelled
	}
	if storerrors.IsTransport(err) {
		return ClassTransient
	}
	if se, ok := storerrors.AsService(err); ok {
		return classifyStatus(se.StatusCode)
	}
	return ClassNonRetryable
}

// ClassifyAttempt classifies the last failure of rc, including the
// contextual rules that depend on where the attempt ran. A 404 served by
// the secondary of an alternating mode is treated as transient, because
// the entity may simply not have replicated yet and the primary can still
// answer. Custom Policy implementations should prefer this over Classify.
func ClassifyAttempt(rc Context) Class {
	class := Classify(rc.LastError)
	if class != ClassNonRetryable {
		return class
	}
	if rc.Location != Secondary || !alternating(rc.Mode) {
		return class
	}
	if se, ok := storerrors.AsService(rc.LastError); ok && se.StatusCode == http.StatusNotFound {
		return ClassTransient
	}
	return class
}

func alternating(m LocationMode) bool {
	return m == PrimaryThenSecondary || m == SecondaryThenPrimary
}

func classifyStatus(status int) Class {
	switch status {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return ClassThrottling
	case http.StatusRequestTimeout, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusGatewayTimeout:
		return ClassTransient
	default:
		return ClassNonRetryable
	}
}

// ParseRetryAfter interprets a Retry-After header value as a wait
// duration relative to now. Both delta-seconds and HTTP-date forms are
// accepted. The second return value is false when the value is absent,
// malformed, or already in the past.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}

	t, err := dateparse.ParseAny(value)
	if err != nil {
		return 0, false
	}
	d := t.Sub(now)
	if d <= 0 {
		return 0, false
	}
	return d, true
}
