package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// TokenConfig configures a TokenCredential.
type TokenConfig struct {
	// Source supplies bearer tokens.
	Source oauth2.TokenSource

	// RefreshWindow is how long before expiry a refresh is attempted.
	// Default: 2 minutes
	RefreshWindow time.Duration
}

// TokenCredential caches bearer tokens from an oauth2.TokenSource and
// refreshes them ahead of expiry. Concurrent refreshes collapse into one
// fetch, and a failed refresh falls back to the last good token while it
// remains valid.
type TokenCredential struct {
	config TokenConfig

	mu       sync.RWMutex
	token    *oauth2.Token
	lastGood *oauth2.Token      // backup for graceful degradation
	sfGroup  singleflight.Group // prevents thundering herd
}

// NewTokenCredential creates a TokenCredential.
func NewTokenCredential(config TokenConfig) (*TokenCredential, error) {
	if config.Source == nil {
		return nil, fmt.Errorf("%w: nil token source", ErrMissingCredential)
	}
	if config.RefreshWindow == 0 {
		config.RefreshWindow = 2 * time.Minute
	}
	return &TokenCredential{config: config}, nil
}

// Token returns a bearer token, refreshing when the cached one is absent
// or inside the refresh window.
func (c *TokenCredential) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.RLock()
	tok := c.token
	c.mu.RUnlock()
	if c.fresh(tok) {
		return tok.AccessToken, nil
	}

	_, err, _ := c.sfGroup.Do("refresh", func() (any, error) {
		return nil, c.refresh()
	})
	if err != nil {
		// On refresh failure, serve the last good token while it is
		// still valid.
		c.mu.RLock()
		last := c.lastGood
		c.mu.RUnlock()
		if last != nil && last.AccessToken != "" &&
			(last.Expiry.IsZero() || time.Now().Before(last.Expiry)) {
			return last.AccessToken, nil
		}
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	c.mu.RLock()
	tok = c.token
	c.mu.RUnlock()
	if tok == nil || tok.AccessToken == "" {
		return "", ErrTokenUnavailable
	}
	return tok.AccessToken, nil
}

// fresh reports whether tok can be served without a refresh. A token
// without a discoverable expiry never triggers one.
func (c *TokenCredential) fresh(tok *oauth2.Token) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return time.Until(tok.Expiry) > c.config.RefreshWindow
}

func (c *TokenCredential) refresh() error {
	tok, err := c.config.Source.Token()
	if err != nil {
		return err
	}
	if tok.Expiry.IsZero() {
		// Sources handing out raw JWTs often omit Expiry; recover it
		// from the exp claim so the refresh window still applies.
		if exp, ok := jwtExpiry(tok.AccessToken); ok {
			withExpiry := *tok
			withExpiry.Expiry = exp
			tok = &withExpiry
		}
	}

	c.mu.Lock()
	c.token = tok
	c.lastGood = tok
	c.mu.Unlock()
	return nil
}

// jwtExpiry reads the exp claim without verifying the signature. The
// expiry only schedules refreshes; it grants no trust.
func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// BearerSigner attaches OAuth2 bearer tokens from a TokenCredential.
type BearerSigner struct {
	credential *TokenCredential
}

// NewBearerSigner creates a signer that attaches bearer tokens.
func NewBearerSigner(credential *TokenCredential) *BearerSigner {
	return &BearerSigner{credential: credential}
}

// Scheme implements Signer.
func (s *BearerSigner) Scheme() Scheme {
	return SchemeBearer
}

// Sign implements Signer.
func (s *BearerSigner) Sign(req *http.Request) error {
	if s.credential == nil {
		return ErrMissingCredential
	}
	token, err := s.credential.Token(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

var _ Signer = (*BearerSigner)(nil)
