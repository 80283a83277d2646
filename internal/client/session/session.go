// Package session owns the single bearer credential used against the
// backend. The token is explicit state constructed from the settings table
// at startup and passed by reference to the request gateway, instead of a
// mutable package-level variable.
//
// Lifecycle: set on successful login; attached to every outgoing request;
// cleared on explicit logout, or when a protected endpoint answers 401. A
// 401 from the login or registration endpoints themselves never clears it,
// since that means credentials-rejected rather than session-expired.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dukaanly/possync/internal/client/repositories/settings"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKey is the settings-table key the token is persisted under.
const TokenKey = "session_token"

type Session struct {
	mu       sync.RWMutex
	token    string
	settings settings.Repository
}

// Load constructs a Session from the persisted token, if any.
func Load(ctx context.Context, repo settings.Repository) (*Session, error) {
	s := &Session{settings: repo}

	value, err := repo.Get(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}
	s.token = string(value)
	return s, nil
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores and persists a new token.
func (s *Session) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.settings.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}
	return nil
}

// Clear drops the token from memory and storage. Subsequent requests go out
// unauthenticated until the user logs in again.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.settings.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

// ExpiresAt reads the expiry claim from the stored JWT without verifying
// its signature. Diagnostics only; the server's 401 remains the source of
// truth for session validity.
func (s *Session) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
