package pipeline

import "net/http"

// Transport sends one HTTP request and returns its response.
// *http.Client satisfies it.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: implementations must honor the request's context.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Transport = (*http.Client)(nil)
