package pipeline

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	storerrors "github.com/jonwraymond/storops/errors"
	"github.com/jonwraymond/storops/retry"
)

// Response is one attempt's outcome with the body fully read, so the
// retry loop never holds a connection open across a backoff.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RequestID returns the server-assigned request id, when present.
func (r *Response) RequestID() string {
	return r.Header.Get(HeaderRequestID)
}

// Error bodies arrive in two shapes: JSON services send
// {"error":{"code","message"}}, XML services send
// <Error><Code/><Message/></Error>.
type wireErrorJSON struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type wireErrorXML struct {
	XMLName xml.Name `xml:"Error"`
	Code    string   `xml:"Code"`
	Message string   `xml:"Message"`
}

// serviceError converts a non-success response into a ServiceError,
// decoding whichever error body shape the service used. A body that
// decodes as neither leaves Code and Message empty; the status code
// still classifies the failure.
func serviceError(resp *Response, now time.Time) error {
	se := &storerrors.ServiceError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.RequestID(),
	}
	body := strings.TrimSpace(string(resp.Body))
	switch {
	case strings.HasPrefix(body, "{"):
		var we wireErrorJSON
		if err := json.Unmarshal([]byte(body), &we); err == nil {
			se.Code = we.Error.Code
			se.Message = we.Error.Message
		}
	case strings.HasPrefix(body, "<"):
		var we wireErrorXML
		if err := xml.Unmarshal([]byte(body), &we); err == nil {
			se.Code = we.Code
			se.Message = we.Message
		}
	}
	if wait, ok := retry.ParseRetryAfter(resp.Header.Get("Retry-After"), now); ok {
		se.RetryAfter = wait
	}
	return se
}
