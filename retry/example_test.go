package retry_test

import (
	"fmt"
	"time"

	storerrors "github.com/jonwraymond/storops/errors"
	"github.com/jonwraymond/storops/retry"
)

func ExampleNewExponentialRetry() {
	policy := retry.NewExponentialRetry(retry.ExponentialConfig{
		MaxAttempts: 3,
		Delta:       2 * time.Second,
		NoJitter:    true, // Disabled for predictable example
	})

	decision := policy.ShouldRetry(retry.Context{
		Attempt:          1,
		LastError:        &storerrors.ServiceError{StatusCode: 500},
		Location:         retry.Primary,
		Mode:             retry.PrimaryOnly,
		PrimaryAvailable: true,
	})

	fmt.Println("retry:", decision.Retry)
	fmt.Println("backoff:", decision.Backoff)
	fmt.Println("target:", decision.Target)
	// Output:
	// retry: true
	// backoff: 2s
	// target: primary
}

func ExampleNewExponentialRetry_failover() {
	policy := retry.NewExponentialRetry(retry.ExponentialConfig{NoJitter: true})

	// A read against the primary of a geo-replicated account failed with
	// a transient error. Both endpoints remain available.
	decision := policy.ShouldRetry(retry.Context{
		Attempt:            1,
		LastError:          &storerrors.ServiceError{StatusCode: 502},
		Location:           retry.Primary,
		Mode:               retry.PrimaryThenSecondary,
		PrimaryAvailable:   true,
		SecondaryAvailable: true,
	})

	fmt.Println("next target:", decision.Target)
	// Output:
	// next target: secondary
}

func ExampleClassify() {
	fmt.Println(retry.Classify(&storerrors.ServiceError{StatusCode: 503}))
	fmt.Println(retry.Classify(&storerrors.ServiceError{StatusCode: 500}))
	fmt.Println(retry.Classify(&storerrors.ServiceError{StatusCode: 403}))
	// Output:
	// throttling
	// transient
	// non-retryable
}
