package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "registry-client/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Claims are the Gateway token claims the client cares about. The token is
// verified by the Gateway; the client only reads it.
type Claims struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenSource serves the configured API token as an oauth2 bearer token and
// refuses to hand out a token that already expired
type TokenSource struct {
	raw    string
	claims *Claims
	now    func() time.Time
}

// NewTokenSource parses the raw token without verifying its signature
func NewTokenSource(raw string) (*TokenSource, error) {
	if raw == "" {
		return nil, apperrors.ErrTokenMissing
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to parse api token: %w", err)
	}

	return &TokenSource{raw: raw, claims: claims, now: time.Now}, nil
}

// Token implements oauth2.TokenSource
func (s *TokenSource) Token() (*oauth2.Token, error) {
	tok := &oauth2.Token{AccessToken: s.raw, TokenType: "Bearer"}
	if s.claims.ExpiresAt != nil {
		tok.Expiry = s.claims.ExpiresAt.Time
		if !s.now().Before(tok.Expiry) {
			return nil, apperrors.ErrTokenExpired
		}
	}
	return tok, nil
}

// Username returns the user the token was issued to
func (s *TokenSource) Username() string {
	if s.claims.Username != "" {
		return s.claims.Username
	}
	return s.claims.Subject
}

// Role returns the role claim, if any
func (s *TokenSource) Role() string {
	return s.claims.Role
}

// ExpiresAt returns the token expiry, zero when the token never expires
func (s *TokenSource) ExpiresAt() time.Time {
	if s.claims.ExpiresAt == nil {
		return time.Time{}
	}
	return s.claims.ExpiresAt.Time
}

// HTTPClient wraps base so that every request carries the bearer token.
// A nil source returns base unchanged, which allows anonymous read access.
func HTTPClient(base *http.Client, source oauth2.TokenSource) *http.Client {
	if source == nil {
		return base
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	client := *base
	client.Transport = &oauth2.Transport{Source: source, Base: transport}
	return &client
}

type contextKey string

const usernameKey contextKey = "username"

// WithUsername stores the acting user in ctx for log enrichment
func WithUsername(ctx context.Context, username string) context.Context {
	if username == "" {
		return ctx
	}
	return context.WithValue(ctx, usernameKey, username)
}

// UsernameFromContext returns the acting user stored by WithUsername
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}
