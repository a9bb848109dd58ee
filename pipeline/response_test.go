package pipeline

import (
	"net/http"
	"testing"
	"time"

	storerrors "github.com/jonwraymond/storops/errors"
)

func TestServiceErrorParsesJSONBody(t *testing.T) {
	resp := &Response{
		StatusCode: http.StatusConflict,
		Header:     http.Header{},
		Body:       []byte(`{"error":{"code":"TableAlreadyExists","message":"The table already exists."}}`),
	}
	resp.Header.Set(HeaderRequestID, "req-9")
	err := serviceError(resp, time.Now())
	se, ok := storerrors.AsService(err)
	if !ok {
		t.Fatalf("serviceError() = %T, want service error", err)
	}
	if se.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d, want 409", se.StatusCode)
	}
	if se.Code != "TableAlreadyExists" {
		t.Errorf("Code = %q, want %q", se.Code, "TableAlreadyExists")
	}
	if se.Message != "The table already exists." {
		t.Errorf("Message = %q", se.Message)
	}
	if se.RequestID != "req-9" {
		t.Errorf("RequestID = %q, want %q", se.RequestID, "req-9")
	}
}

func TestServiceErrorParsesXMLBody(t *testing.T) {
	resp := &Response{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{},
		Body: []byte(`<?xml version="1.0" encoding="utf-8"?>
<Error><Code>ShareNotFound</Code><Message>The specified share does not exist.</Message></Error>`),
	}
	err := serviceError(resp, time.Now())
	se, _ := storerrors.AsService(err)
	if se.Code != "ShareNotFound" {
		t.Errorf("Code = %q, want %q", se.Code, "ShareNotFound")
	}
	if se.Message != "The specified share does not exist." {
		t.Errorf("Message = %q", se.Message)
	}
}

func TestServiceErrorToleratesOpaqueBody(t *testing.T) {
	resp := &Response{
		StatusCode: http.StatusBadGateway,
		Header:     http.Header{},
		Body:       []byte("upstream gateway choked"),
	}
	err := serviceError(resp, time.Now())
	se, ok := storerrors.AsService(err)
	if !ok {
		t.Fatalf("serviceError() = %T, want service error", err)
	}
	if se.StatusCode != http.StatusBadGateway || se.Code != "" {
		t.Errorf("got %+v, want bare 502 with empty code", se)
	}
}

func TestServiceErrorHonorsRetryAfter(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	resp := &Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{"Retry-After": []string{"7"}},
		Body:       nil,
	}
	err := serviceError(resp, now)
	se, _ := storerrors.AsService(err)
	if se.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", se.RetryAfter)
	}
}

func TestResponseRequestID(t *testing.T) {
	resp := &Response{Header: http.Header{}}
	if got := resp.RequestID(); got != "" {
		t.Errorf("RequestID() = %q, want empty", got)
	}
	resp.Header.Set(HeaderRequestID, "abc-123")
	if got := resp.RequestID(); got != "abc-123" {
		t.Errorf("RequestID() = %q, want %q", got, "abc-123")
	}
}
