package retry

import (
	"math"
	"math/rand"
	"time"

	storerrors "github.com/jonwraymond/storops/errors"
)

// Context describes one failed attempt to a Policy. It is created fresh
// for each logical operation, updated by the executor after every
// attempt, and discarded when the operation ends.
type Context struct {
	// Attempt is the number of attempts completed so far, including the
	// first. It is at least 1 whenever a policy is consulted.
	Attempt int

	// LastError is the classified failure of the most recent attempt.
	LastError error

	// Location is where the most recent attempt ran.
	Location Location

	// Mode is the effective location mode of the operation.
	Mode LocationMode

	// PrimaryAvailable and SecondaryAvailable report whether each
	// endpoint is still worth targeting for this operation.
	PrimaryAvailable   bool
	SecondaryAvailable bool
}

// Decision is a policy's verdict on one failed attempt. The zero value
// means "do not retry".
type Decision struct {
	// Retry reports whether another attempt should be made.
	Retry bool

	// Backoff is how long to wait before the next attempt.
	Backoff time.Duration

	// Target is the location of the next attempt. Meaningful only when
	// Retry is true.
	Target Location
}

// Policy decides whether and how a failed attempt is retried.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Purity: ShouldRetry must not retain or mutate the Context; identical
//   Contexts must yield identical Decisions apart from jitter.
// - Errors: implementations must not panic on malformed errors.
type Policy interface {
	// ShouldRetry evaluates the failed attempt described by rc.
	ShouldRetry(rc Context) Decision
}

// ExponentialConfig configures ExponentialRetry.
type ExponentialConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// Delta is the base delay; attempt n waits roughly Delta * 2^(n-1).
	// Default: 4s
	Delta time.Duration

	// MaxDelay caps the computed backoff.
	// Default: 120s
	MaxDelay time.Duration

	// NoJitter disables the additive jitter applied to each delay.
	// Jitter is on by default.
	NoJitter bool
}

// ExponentialRetry retries transient and throttling failures with
// exponentially growing backoff. It is the built-in default policy.
type ExponentialRetry struct {
	config ExponentialConfig
}

// NewExponentialRetry creates an exponential retry policy.
func NewExponentialRetry(config ExponentialConfig) *ExponentialRetry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.Delta <= 0 {
		config.Delta = 4 * time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 120 * time.Second
	}

	return &ExponentialRetry{config: config}
}

// ShouldRetry implements Policy.
func (r *ExponentialRetry) ShouldRetry(rc Context) Decision {
	class := ClassifyAttempt(rc)
	if !retryableClass(class) || rc.Attempt >= r.config.MaxAttempts {
		return Decision{}
	}

	target, ok := NextTarget(rc)
	if !ok {
		return Decision{}
	}

	delay := r.backoff(rc.Attempt)
	delay = honorRetryAfter(rc, class, delay, r.config.MaxDelay)

	return Decision{Retry: true, Backoff: delay, Target: target}
}

func (r *ExponentialRetry) backoff(attempt int) time.Duration {
	multiplier := math.Pow(2, float64(attempt-1))
	delay := time.Duration(float64(r.config.Delta) * multiplier)

	// Cap at max delay
	if delay > r.config.MaxDelay || delay <= 0 {
		delay = r.config.MaxDelay
	}

	if !r.config.NoJitter {
		delay += jitter(delay)
	}
	return delay
}

// Config returns the policy configuration.
func (r *ExponentialRetry) Config() ExponentialConfig {
	return r.config
}

// LinearConfig configures LinearRetry.
type LinearConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// Delta is the fixed interval between attempts.
	// Default: 30s
	Delta time.Duration

	// NoJitter disables the additive jitter applied to each delay.
	// Jitter is on by default.
	NoJitter bool
}

// LinearRetry retries transient and throttling failures with a fixed
// interval between attempts.
type LinearRetry struct {
	config LinearConfig
}

// NewLinearRetry creates a fixed-interval retry policy.
func NewLinearRetry(config LinearConfig) *LinearRetry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.Delta <= 0 {
		config.Delta = 30 * time.Second
	}

	return &LinearRetry{config: config}
}

// ShouldRetry implements Policy.
func (r *LinearRetry) ShouldRetry(rc Context) Decision {
	class := ClassifyAttempt(rc)
	if !retryableClass(class) || rc.Attempt >= r.config.MaxAttempts {
		return Decision{}
	}

	target, ok := NextTarget(rc)
	if !ok {
		return Decision{}
	}

	delay := r.config.Delta
	if !r.config.NoJitter {
		delay += jitter(delay)
	}
	delay = honorRetryAfter(rc, class, delay, 0)

	return Decision{Retry: true, Backoff: delay, Target: target}
}

// Config returns the policy configuration.
func (r *LinearRetry) Config() LinearConfig {
	return r.config
}

// NoRetry never retries. Failures surface after the first attempt.
type NoRetry struct{}

// NewNoRetry creates a policy that never retries.
func NewNoRetry() *NoRetry {
	return &NoRetry{}
}

// ShouldRetry implements Policy.
func (r *NoRetry) ShouldRetry(rc Context) Decision {
	return Decision{}
}

func retryableClass(c Class) bool {
	return c == ClassTransient || c == ClassThrottling
}

// honorRetryAfter stretches the delay to a throttling response's
// server-suggested wait. maxDelay of zero means uncapped.
func honorRetryAfter(rc Context, class Class, delay, maxDelay time.Duration) time.Duration {
	if class != ClassThrottling {
		return delay
	}
	se, ok := storerrors.AsService(rc.LastError)
	if !ok || se.RetryAfter <= 0 {
		return delay
	}
	if se.RetryAfter > delay {
		delay = se.RetryAfter
	}
	if maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func jitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}
	// Add up to 25% jitter
	// #nosec G404 -- jitter is non-cryptographic timing variance.
	return time.Duration(rand.Int63n(int64(delay / 4)))
}

// Compile-time interface checks.
var (
	_ Policy = (*ExponentialRetry)(nil)
	_ Policy = (*LinearRetry)(nil)
	_ Policy = (*NoRetry)(nil)
)
