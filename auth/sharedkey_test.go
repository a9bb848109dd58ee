package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"
)

const testKeyBase64 = "c3Rvcm9wcyBsb2NhbCBkZXZlbG9wbWVudCBlbXVsYXRvciBzaGFyZWQga2V5IG1hdGVyaWFsIDAwMDE="

// staticKeyCredential is a test double for the account credential.
type staticKeyCredential struct {
	name string
	key  []byte
}

func (c *staticKeyCredential) AccountName() string { return c.name }

func (c *staticKeyCredential) ComputeHMACSHA256(message string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func testCredential(t *testing.T) *staticKeyCredential {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(testKeyBase64)
	if err != nil {
		t.Fatalf("decoding test key: %v", err)
	}
	return &staticKeyCredential{name: "myaccount", key: key}
}

func newSignedRequest(t *testing.T, method, rawurl string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, rawurl, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set(HeaderDate, "Tue, 10 Feb 2026 12:00:00 GMT")
	req.Header.Set("x-stor-version", "2026-02-02")
	return req
}

func TestCanonicalStringFull(t *testing.T) {
	req := newSignedRequest(t, http.MethodGet,
		"https://myaccount.table.stor.cloudapi.net/tables?maxresults=5&prefix=dev&timeout=90")

	want := strings.Join([]string{
		"GET",
		"", "", "", "", "", // Content-Encoding..Content-Type
		"", // Date, superseded by x-stor-date
		"", "", "", "", "", // conditionals and Range
		"x-stor-date:Tue, 10 Feb 2026 12:00:00 GMT",
		"x-stor-version:2026-02-02",
		"/myaccount/tables\nmaxresults:5\nprefix:dev\ntimeout:90",
	}, "\n")

	if got := canonicalString(req, "myaccount"); got != want {
		t.Errorf("canonicalString() =\n%q\nwant\n%q", got, want)
	}
}

func TestCanonicalStringDateSlot(t *testing.T) {
	req := newSignedRequest(t, http.MethodGet, "https://myaccount.table.stor.cloudapi.net/tables")
	req.Header.Del(HeaderDate)
	req.Header.Set("Date", "Tue, 10 Feb 2026 12:00:00 GMT")

	got := canonicalString(req, "myaccount")
	if !strings.Contains(got, "\nTue, 10 Feb 2026 12:00:00 GMT\n") {
		t.Errorf("canonicalString() without x-stor-date does not sign the Date header:\n%q", got)
	}
}

func TestCanonicalStringContentLength(t *testing.T) {
	req := newSignedRequest(t, http.MethodPost,
		"https://myaccount.table.stor.cloudapi.net/tables")
	req.ContentLength = 42
	req.Header.Set("Content-Type", "application/json")

	got := canonicalString(req, "myaccount")
	if !strings.Contains(got, "\n42\n") {
		t.Errorf("canonicalString() does not sign the content length:\n%q", got)
	}

	// A zero length signs as an empty slot, not "0".
	req.ContentLength = 0
	got = canonicalString(req, "myaccount")
	if strings.Contains(got, "\n0\n") {
		t.Errorf("canonicalString() signs a zero content length as %q:\n%q", "0", got)
	}
}

func TestCanonicalStringSortsPrefixedHeaders(t *testing.T) {
	req := newSignedRequest(t, http.MethodGet, "https://myaccount.table.stor.cloudapi.net/tables")
	req.Header.Set("x-stor-client-request-id", "id-1")
	req.Header.Add("x-stor-meta-tag", " b ")
	req.Header.Add("x-stor-meta-tag", "a")

	got := canonicalizedHeaders(req.Header)
	want := strings.Join([]string{
		"x-stor-client-request-id:id-1",
		"x-stor-date:Tue, 10 Feb 2026 12:00:00 GMT",
		"x-stor-meta-tag:b,a",
		"x-stor-version:2026-02-02",
	}, "\n") + "\n"

	if got != want {
		t.Errorf("canonicalizedHeaders() =\n%q\nwant\n%q", got, want)
	}
}

func TestCanonicalizedResourceQueryHandling(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			"no query",
			"https://h/tables",
			"/myaccount/tables",
		},
		{
			"repeated values sorted and joined",
			"https://h/tables?include=metadata&include=acl",
			"/myaccount/tables\ninclude:acl,metadata",
		},
		{
			"names lowercased, values kept",
			"https://h/tables?Prefix=Dev",
			"/myaccount/tables\nprefix:Dev",
		},
		{
			"empty path",
			"https://h?comp=list",
			"/myaccount/\ncomp:list",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, c.url, nil)
			if err != nil {
				t.Fatalf("building request: %v", err)
			}
			if got := canonicalizedResource("myaccount", req.URL); got != c.want {
				t.Errorf("canonicalizedResource() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestCanonicalStringLite(t *testing.T) {
	req := newSignedRequest(t, http.MethodPut,
		"https://myaccount.file.stor.cloudapi.net/myshare?restype=share&comp=properties")
	req.Header.Set("Content-Type", "application/xml")

	want := strings.Join([]string{
		"PUT",
		"", // Content-MD5
		"application/xml",
		"Tue, 10 Feb 2026 12:00:00 GMT",
		"x-stor-date:Tue, 10 Feb 2026 12:00:00 GMT",
		"x-stor-version:2026-02-02",
		"/myaccount/myshare?comp=properties",
	}, "\n")

	if got := canonicalStringLite(req, "myaccount"); got != want {
		t.Errorf("canonicalStringLite() =\n%q\nwant\n%q", got, want)
	}
}

func TestCanonicalStringLiteIgnoresOtherParams(t *testing.T) {
	req := newSignedRequest(t, http.MethodGet,
		"https://myaccount.file.stor.cloudapi.net/?comp=list&prefix=dev&maxresults=3")

	got := canonicalStringLite(req, "myaccount")
	if !strings.HasSuffix(got, "/myaccount/?comp=list") {
		t.Errorf("canonicalStringLite() resource = %q, want only the comp parameter", got)
	}
	if strings.Contains(got, "prefix") {
		t.Errorf("canonicalStringLite() leaked a non-comp parameter:\n%q", got)
	}
}

func TestSharedKeySignerAuthorizationHeader(t *testing.T) {
	signer := NewSharedKeySigner(testCredential(t))
	req := newSignedRequest(t, http.MethodGet, "https://myaccount.table.stor.cloudapi.net/tables")

	if err := signer.Sign(req); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	const want = "SharedKey myaccount:c7UNxuJYjXteujASDatgrWyUK6O3J6rr1jwPz0ff5YE="
	if got := req.Header.Get("Authorization"); got != want {
		t.Errorf("Authorization = %q, want %q", got, want)
	}
}

func TestSharedKeyLiteSignerHeaderShape(t *testing.T) {
	signer := NewSharedKeyLiteSigner(testCredential(t))
	req := newSignedRequest(t, http.MethodGet, "https://myaccount.table.stor.cloudapi.net/tables")

	if err := signer.Sign(req); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	got := req.Header.Get("Authorization")
	if !strings.HasPrefix(got, "SharedKeyLite myaccount:") {
		t.Errorf("Authorization = %q, want a SharedKeyLite header", got)
	}
}

func TestSharedKeySignerDeterministic(t *testing.T) {
	signer := NewSharedKeySigner(testCredential(t))

	sign := func() string {
		req := newSignedRequest(t, http.MethodGet,
			"https://myaccount.table.stor.cloudapi.net/tables?timeout=30")
		if err := signer.Sign(req); err != nil {
			t.Fatalf("Sign() error = %v", err)
		}
		return req.Header.Get("Authorization")
	}

	if first, second := sign(), sign(); first != second {
		t.Errorf("identical requests signed differently:\n%q\n%q", first, second)
	}
}

func TestSharedKeySignerOnlyTouchesAuthorization(t *testing.T) {
	signer := NewSharedKeySigner(testCredential(t))
	req := newSignedRequest(t, http.MethodGet, "https://myaccount.table.stor.cloudapi.net/tables")

	before := len(req.Header)
	if err := signer.Sign(req); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if got := len(req.Header); got != before+1 {
		t.Errorf("Sign() changed %d headers, want only Authorization added", got-before)
	}
}

func TestSharedKeySignerMissingCredential(t *testing.T) {
	signer := &SharedKeySigner{}
	req := newSignedRequest(t, http.MethodGet, "https://myaccount.table.stor.cloudapi.net/tables")

	if err := signer.Sign(req); err != ErrMissingCredential {
		t.Errorf("Sign() error = %v, want ErrMissingCredential", err)
	}
}
