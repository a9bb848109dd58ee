package account

import (
	"fmt"
	"net/url"
	"strings"

	storerrors "github.com/jonwraymond/storops/errors"
	"github.com/jonwraymond/storops/options"
	"github.com/jonwraymond/storops/retry"
)

// StorageUri pairs the required primary endpoint of one service with an
// optional read-access secondary endpoint.
//
// Contract:
//   - Immutability: a StorageUri never changes after construction; accessors
//     return copies.
//   - Concurrency: safe for concurrent use.
type StorageUri struct {
	primary   url.URL
	secondary *url.URL
}

// NewStorageUri builds a StorageUri with a primary endpoint only.
func NewStorageUri(primary string) (StorageUri, error) {
	p, err := parseEndpoint("primary endpoint", primary)
	if err != nil {
		return StorageUri{}, err
	}
	return StorageUri{primary: *p}, nil
}

// NewStorageUriWithSecondary builds a StorageUri with both a primary and a
// read-access secondary endpoint.
func NewStorageUriWithSecondary(primary, secondary string) (StorageUri, error) {
	p, err := parseEndpoint("primary endpoint", primary)
	if err != nil {
		return StorageUri{}, err
	}
	s, err := parseEndpoint("secondary endpoint", secondary)
	if err != nil {
		return StorageUri{}, err
	}
	return StorageUri{primary: *p, secondary: s}, nil
}

func parseEndpoint(which, raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, storerrors.NewConfigurationError(which, "must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, storerrors.NewConfigurationError(which,
			fmt.Sprintf("%q is not an absolute http(s) URL", raw))
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// Primary returns a copy of the primary endpoint.
func (s StorageUri) Primary() *url.URL {
	u := s.primary
	return &u
}

// Secondary returns a copy of the secondary endpoint and whether one exists.
func (s StorageUri) Secondary() (*url.URL, bool) {
	if s.secondary == nil {
		return nil, false
	}
	u := *s.secondary
	return &u, true
}

// Endpoint returns a copy of the endpoint serving the given location and
// whether that location is backed at all.
func (s StorageUri) Endpoint(loc retry.Location) (*url.URL, bool) {
	if loc == retry.Secondary {
		return s.Secondary()
	}
	if s.primary.Host == "" {
		return nil, false
	}
	return s.Primary(), true
}

// Capabilities reports which locations this StorageUri can serve. The
// options resolver uses it to reject location modes the account cannot
// satisfy before any request is built.
func (s StorageUri) Capabilities() options.Capabilities {
	return options.Capabilities{
		HasPrimary:   s.primary.Host != "",
		HasSecondary: s.secondary != nil,
	}
}

func (s StorageUri) String() string {
	if s.secondary == nil {
		return s.primary.String()
	}
	return s.primary.String() + " (+secondary)"
}
