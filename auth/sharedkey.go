package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// standardHeaders is the fixed list of non-prefixed headers in the full
// canonical string, in signing order. The verb precedes them and the
// canonicalized x-stor-* headers follow.
var standardHeaders = []string{
	"Content-Encoding",
	"Content-Language",
	"Content-Length",
	"Content-MD5",
	"Content-Type",
	"Date",
	"If-Modified-Since",
	"If-Match",
	"If-None-Match",
	"If-Unmodified-Since",
	"Range",
}

// SharedKeySigner produces SharedKey and SharedKeyLite Authorization
// headers from a KeyCredential.
type SharedKeySigner struct {
	credential KeyCredential
	lite       bool
}

// NewSharedKeySigner creates a signer for the full canonicalization scheme.
func NewSharedKeySigner(credential KeyCredential) *SharedKeySigner {
	return &SharedKeySigner{credential: credential}
}

// NewSharedKeyLiteSigner creates a signer for the lite canonicalization
// scheme.
func NewSharedKeyLiteSigner(credential KeyCredential) *SharedKeySigner {
	return &SharedKeySigner{credential: credential, lite: true}
}

// Scheme implements Signer.
func (s *SharedKeySigner) Scheme() Scheme {
	if s.lite {
		return SchemeSharedKeyLite
	}
	return SchemeSharedKey
}

// Sign implements Signer.
func (s *SharedKeySigner) Sign(req *http.Request) error {
	if s.credential == nil {
		return ErrMissingCredential
	}

	var canonical string
	if s.lite {
		canonical = canonicalStringLite(req, s.credential.AccountName())
	} else {
		canonical = canonicalString(req, s.credential.AccountName())
	}

	signature := s.credential.ComputeHMACSHA256(canonical)
	req.Header.Set("Authorization",
		fmt.Sprintf("%s %s:%s", s.Scheme(), s.credential.AccountName(), signature))
	return nil
}

// canonicalString builds the full-scheme string to sign: the verb, the
// standard headers in fixed order, the sorted x-stor-* headers, and the
// canonical resource with every query parameter.
func canonicalString(req *http.Request, accountName string) string {
	var b strings.Builder
	b.WriteString(req.Method)

	for _, name := range standardHeaders {
		b.WriteString("\n")
		b.WriteString(standardHeaderValue(req, name))
	}
	b.WriteString("\n")

	b.WriteString(canonicalizedHeaders(req.Header))
	b.WriteString(canonicalizedResource(accountName, req.URL))
	return b.String()
}

// canonicalStringLite builds the reduced string to sign: the verb,
// Content-MD5, Content-Type, the date, the sorted x-stor-* headers, and
// the resource with only the comp parameter.
func canonicalStringLite(req *http.Request, accountName string) string {
	date := req.Header.Get(HeaderDate)
	if date == "" {
		date = req.Header.Get("Date")
	}

	var b strings.Builder
	b.WriteString(req.Method)
	b.WriteString("\n")
	b.WriteString(req.Header.Get("Content-MD5"))
	b.WriteString("\n")
	b.WriteString(req.Header.Get("Content-Type"))
	b.WriteString("\n")
	b.WriteString(date)
	b.WriteString("\n")

	b.WriteString(canonicalizedHeaders(req.Header))
	b.WriteString(canonicalizedResourceLite(accountName, req.URL))
	return b.String()
}

// standardHeaderValue resolves one slot of the standard header list. A
// zero Content-Length signs as empty, and the Date slot signs as empty
// when x-stor-date supersedes it.
func standardHeaderValue(req *http.Request, name string) string {
	switch name {
	case "Content-Length":
		return contentLength(req)
	case "Date":
		if req.Header.Get(HeaderDate) != "" {
			return ""
		}
	}
	return req.Header.Get(name)
}

func contentLength(req *http.Request) string {
	if v := req.Header.Get("Content-Length"); v != "" && v != "0" {
		return v
	}
	if req.ContentLength > 0 {
		return strconv.FormatInt(req.ContentLength, 10)
	}
	return ""
}

// canonicalizedHeaders renders every x-stor-* header as name:value
// followed by a newline: names lowercased, values trimmed, repeated
// values comma-joined, sorted by name.
func canonicalizedHeaders(h http.Header) string {
	names := make([]string, 0, len(h))
	for name := range h {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, HeaderPrefix) {
			names = append(names, lower)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		values := h.Values(name)
		trimmed := make([]string, len(values))
		for i, v := range values {
			trimmed[i] = strings.TrimSpace(v)
		}
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(strings.Join(trimmed, ","))
		b.WriteString("\n")
	}
	return b.String()
}

// canonicalizedResource renders /account/path followed by one line per
// query parameter: names lowercased and sorted, repeated values sorted
// and comma-joined.
func canonicalizedResource(accountName string, u *url.URL) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(accountName)
	b.WriteString(resourcePath(u))

	params := u.Query()
	if len(params) == 0 {
		return b.String()
	}

	byName := make(map[string][]string, len(params))
	for name, values := range params {
		lower := strings.ToLower(name)
		byName[lower] = append(byName[lower], values...)
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := byName[name]
		sort.Strings(values)
		b.WriteString("\n")
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(strings.Join(values, ","))
	}
	return b.String()
}

// canonicalizedResourceLite renders /account/path, appending only the
// comp parameter when present.
func canonicalizedResourceLite(accountName string, u *url.URL) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(accountName)
	b.WriteString(resourcePath(u))

	if comp := u.Query().Get("comp"); comp != "" {
		b.WriteString("?comp=")
		b.WriteString(comp)
	}
	return b.String()
}

func resourcePath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

var _ Signer = (*SharedKeySigner)(nil)
