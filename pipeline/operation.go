package pipeline

import (
	"net/http"
	"net/url"

	storerrors "github.com/jonwraymond/storops/errors"
)

// Intent classifies an operation's effect on server state. Write
// operations never route to a secondary replica: replicas are read-only
// and replication lags the primary.
type Intent int

const (
	IntentRead Intent = iota
	IntentWrite
)

// String returns a human-readable intent name.
func (i Intent) String() string {
	switch i {
	case IntentRead:
		return "read"
	case IntentWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Operation describes one logical service call, independent of the
// endpoint that ultimately serves it. The executor owns everything
// endpoint- and attempt-specific: host selection, the timeout query
// parameter, date and version headers, and the Authorization header.
type Operation struct {
	// Method is the HTTP verb.
	Method string

	// Path is the resource path relative to the service endpoint.
	Path string

	// Query holds operation query parameters. The executor adds the
	// server timeout parameter itself.
	Query url.Values

	// Header holds operation headers beyond the standard set.
	Header http.Header

	// Body is the request payload, replayed as-is on every attempt.
	Body []byte

	// ContentType is applied when Body is non-empty.
	ContentType string

	// Intent gates secondary routing.
	// Default: IntentRead
	Intent Intent

	// Success reports whether a status code completes the operation.
	// Default: any 2xx status.
	Success func(status int) bool

	// Parse consumes the successful response. A Parse failure is
	// terminal; the response already arrived, so it is never retried.
	Parse func(resp *Response) error
}

// succeeded applies the operation's success predicate.
func (op *Operation) succeeded(status int) bool {
	if op.Success != nil {
		return op.Success(status)
	}
	return status >= 200 && status < 300
}

func (op *Operation) validate() error {
	if op == nil {
		return storerrors.NewValidationError("operation", "must not be nil")
	}
	if op.Method == "" {
		return storerrors.NewValidationError("operation", "method must not be empty")
	}
	return nil
}
