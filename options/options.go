package options

import (
	"time"

	"github.com/jonwraymond/storops/auth"
	"github.com/jonwraymond/storops/retry"
)

// RequestOptions is one layer of the options stack. Callers build a
// per-call layer, clients hold a default layer, and the package supplies
// the built-in layer returned by Defaults. Every field is a tri-state
// Setting so an explicit opt-out survives the merge.
type RequestOptions struct {
	// ServerTimeout is the advisory server-side timeout, sent as the
	// timeout=<seconds> query parameter. Disabled (or an explicit zero)
	// suppresses the parameter even when a lower layer sets one.
	ServerTimeout Setting[time.Duration]

	// MaximumExecutionTime bounds the whole logical operation including
	// retries and backoff, enforced client-side by the executor.
	// Disabled means no client deadline.
	MaximumExecutionTime Setting[time.Duration]

	// LocationMode selects which replica endpoints the operation may
	// target. Cannot be disabled.
	LocationMode Setting[retry.LocationMode]

	// RetryPolicy decides whether failed attempts are retried.
	// Disabled is shorthand for retry.NoRetry.
	RetryPolicy Setting[retry.Policy]

	// AuthScheme selects how requests are signed. Disabled sends
	// anonymous requests with no Authorization header.
	AuthScheme Setting[auth.Scheme]
}

// EffectiveOptions is the fully resolved snapshot used for exactly one
// logical operation, including its retries. It is never mutated
// mid-operation; a fresh resolve happens per call because client
// defaults may change between calls.
type EffectiveOptions struct {
	// ServerTimeout of zero means no timeout parameter is sent.
	ServerTimeout time.Duration

	// MaximumExecutionTime of zero means no client-side deadline.
	MaximumExecutionTime time.Duration

	LocationMode retry.LocationMode

	RetryPolicy retry.Policy

	// Anonymous reports that signing is skipped entirely. When false,
	// AuthScheme selects the signature scheme.
	Anonymous  bool
	AuthScheme auth.Scheme
}

// Capabilities describes which endpoints the target account exposes.
// The resolver uses it to reject location modes the account cannot
// serve before any request is built.
type Capabilities struct {
	HasPrimary   bool
	HasSecondary bool
}

// Has reports whether the given location is backed by an endpoint.
func (c Capabilities) Has(l retry.Location) bool {
	if l == retry.Primary {
		return c.HasPrimary
	}
	return c.HasSecondary
}
