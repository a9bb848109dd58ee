package auth

import "errors"

// Sentinel errors for request signing.
var (
	ErrMissingCredential = errors.New("auth: missing credential")
	ErrTokenUnavailable  = errors.New("auth: bearer token unavailable")
	ErrUnknownScheme     = errors.New("auth: unknown signature scheme")
)
