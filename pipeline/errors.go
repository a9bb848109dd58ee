package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrExhausted marks operations that failed after consuming every
// permitted attempt. Match it with errors.Is.
var ErrExhausted = errors.New("pipeline: attempts exhausted")

// ExhaustionError is the terminal failure of a retried operation. It
// carries the last classified failure plus the full attempt history, so
// callers can see every host and status that was tried.
type ExhaustionError struct {
	// LastError is the classified failure of the final attempt.
	LastError error

	// Attempts is the complete per-attempt log, oldest first.
	Attempts []AttemptResult
}

func (e *ExhaustionError) Error() string {
	targets := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		targets[i] = a.Location.String()
	}
	return fmt.Sprintf("pipeline: %d attempt(s) failed (%s): %v",
		len(e.Attempts), strings.Join(targets, ", "), e.LastError)
}

// Unwrap exposes the final failure to errors.Is and errors.As, so the
// taxonomy predicates keep working on exhausted operations.
func (e *ExhaustionError) Unwrap() error { return e.LastError }

// Is matches ErrExhausted.
func (e *ExhaustionError) Is(target error) bool { return target == ErrExhausted }

// AttemptErrors aggregates every recorded attempt failure, oldest
// first. Nil when no attempt recorded an error.
func (e *ExhaustionError) AttemptErrors() error {
	var result *multierror.Error
	for _, a := range e.Attempts {
		if a.Err != nil {
			result = multierror.Append(result, a.Err)
		}
	}
	return result.ErrorOrNil()
}
