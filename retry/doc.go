// Package retry decides whether, when, and where a failed storage
// request is attempted again.
//
// The package couples two concerns on purpose: backoff policy and
// endpoint selection. A retry decision is only meaningful together with
// the location it should run against, because accounts expose a primary
// endpoint and, optionally, a read-access secondary replica.
//
// # Policies
//
// Three policies are provided:
//
//   - ExponentialRetry: backoff grows as Delta * 2^(attempt-1), capped at
//     MaxDelay, with additive jitter. The built-in default.
//
//   - LinearRetry: a fixed interval between attempts.
//
//   - NoRetry: failures surface after the first attempt.
//
// All three honor a throttling response's Retry-After suggestion and
// refuse to retry non-retryable or cancelled failures.
//
// # Locations
//
// LocationMode orders the candidate endpoints for an operation.
// PrimaryOnly and SecondaryOnly pin every attempt; the alternating modes
// flip targets on retry-eligible failures, pruned by the availability
// flags the executor maintains in Context.
//
// # Usage
//
//	policy := retry.NewExponentialRetry(retry.ExponentialConfig{
//	    MaxAttempts: 5,
//	    Delta:       2 * time.Second,
//	})
//
//	decision := policy.ShouldRetry(retry.Context{
//	    Attempt:            1,
//	    LastError:          err,
//	    Location:           retry.Primary,
//	    Mode:               retry.PrimaryThenSecondary,
//	    PrimaryAvailable:   true,
//	    SecondaryAvailable: true,
//	})
//	if decision.Retry {
//	    // wait decision.Backoff, then aim at decision.Target
//	}
package retry
