package auth

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource returns a bearer token for the account. Implementations are
// typically backed by an identity provider client.
type TokenSource func(ctx context.Context) (string, error)

// refreshSkew is how long before expiry a cached token is considered stale.
const refreshSkew = 2 * time.Minute

// TokenCredential authorizes requests with bearer tokens obtained from a
// TokenSource. Tokens are cached and refreshed shortly before the expiry
// recorded in their JWT claims; tokens without parseable claims are fetched
// on every request.
type TokenCredential struct {
	source TokenSource
	parser *jwt.Parser

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewTokenCredential creates a credential backed by the given token source.
func NewTokenCredential(source TokenSource) (*TokenCredential, error) {
	if source == nil {
		return nil, fmt.Errorf("token source is required")
	}
	return &TokenCredential{
		source: source,
		parser: jwt.NewParser(),
	}, nil
}

// AuthorizationHeader implements Credential. The signed canonical fields are
// ignored: token authorization covers the whole request.
func (c *TokenCredential) AuthorizationHeader(ctx context.Context, _, _, _ string, _ time.Time) (string, error) {
	token, err := c.currentToken(ctx)
	if err != nil {
		return "", err
	}
	return url.QueryEscape("type=aad&ver=1.0&sig=" + token), nil
}

func (c *TokenCredential) currentToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && !c.expires.IsZero() && time.Until(c.expires) > refreshSkew {
		return c.token, nil
	}

	token, err := c.source(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain bearer token: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("token source returned an empty token")
	}

	c.token = token
	c.expires = tokenExpiry(c.parser, token)
	return token, nil
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// service verifies tokens, the client only schedules refreshes.
func tokenExpiry(parser *jwt.Parser, token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
