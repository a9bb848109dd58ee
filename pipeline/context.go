package pipeline

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/storops/retry"
)

// PreSendInfo is handed to the pre-send hook after a request is built
// and signed, immediately before it goes on the wire.
type PreSendInfo struct {
	// Attempt numbers attempts from 1.
	Attempt int

	// Location is the replica this attempt targets.
	Location retry.Location

	// Request is the final request, including its query string and
	// Authorization header. Hooks must not mutate it.
	Request *http.Request
}

// PostReceiveInfo is handed to the post-receive hook after every
// attempt. Exactly one of Response and Err is non-nil.
type PostReceiveInfo struct {
	Attempt  int
	Location retry.Location

	// Response is the raw response, whatever its status code.
	Response *Response

	// Err is the failure for attempts that produced no response, or the
	// classified service failure for non-success statuses.
	Err error
}

// AttemptResult records one attempt for diagnostics and error reports.
type AttemptResult struct {
	Attempt    int
	Location   retry.Location
	Host       string
	StatusCode int // zero when no response arrived
	Err        error
	Duration   time.Duration
}

// OperationContext carries caller-owned state across the attempts of
// one logical operation: the client request id echoed on the wire, the
// lifecycle hooks, and the recorded attempt log.
//
// Contract:
//   - Concurrency: Attempts is safe to call from hooks and other
//     goroutines; the hook fields themselves must be set before the
//     operation starts.
//   - Hooks run synchronously on the operation's goroutine; a slow hook
//     slows the operation.
type OperationContext struct {
	// ClientRequestID is sent as x-stor-client-request-id on every
	// attempt, correlating client and server logs.
	ClientRequestID string

	// PreSend fires once per attempt with the built, signed request.
	PreSend func(PreSendInfo)

	// PostReceive fires once per attempt with the raw response or the
	// attempt's failure.
	PostReceive func(PostReceiveInfo)

	mu       sync.Mutex
	attempts []AttemptResult
}

// NewOperationContext creates a context with a fresh client request id.
func NewOperationContext() *OperationContext {
	return &OperationContext{ClientRequestID: uuid.NewString()}
}

// Attempts returns a copy of the attempt log recorded so far, oldest
// first.
func (oc *OperationContext) Attempts() []AttemptResult {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	out := make([]AttemptResult, len(oc.attempts))
	copy(out, oc.attempts)
	return out
}

func (oc *OperationContext) record(result AttemptResult) {
	oc.mu.Lock()
	oc.attempts = append(oc.attempts, result)
	oc.mu.Unlock()
}

func (oc *OperationContext) preSend(info PreSendInfo) {
	if oc.PreSend != nil {
		oc.PreSend(info)
	}
}

func (oc *OperationContext) postReceive(info PostReceiveInfo) {
	if oc.PostReceive != nil {
		oc.PostReceive(info)
	}
}
