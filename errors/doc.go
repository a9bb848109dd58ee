// Package errors defines the error taxonomy shared across storops.
//
// Every failure surfaced by the library belongs to exactly one class:
//
//   - ConfigurationError: contradictory options, detected before any I/O.
//   - TransportError: connection-level failure, retryable per policy.
//   - ServiceError: non-2xx response with a server error code; retryable
//     only for the transient and throttling status classes.
//   - CancelledError: caller-initiated cancellation, never retried.
//   - ValidationError: malformed input such as a mismatched continuation
//     token, never retried.
//
// Callers match classes with errors.Is against the package sentinels, or
// with the IsXxx helpers:
//
//	_, err := client.ListSegment(ctx, nil, opts)
//	if storerrors.IsCancelled(err) {
//	    return
//	}
//	if se, ok := storerrors.AsService(err); ok {
//	    log.Printf("server said %s", se.Code)
//	}
package errors
