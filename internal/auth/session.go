// Package auth owns the console's bearer credential. A Session is created once and
// injected into whatever needs the token; nothing else reads the backing store.
package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

// Session is the single source of truth for the bearer token.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
	now   func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession loads any persisted token from store.
func NewSession(store Store, opts ...Option) (*Session, error) {
	s := &Session{store: store, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	tok, ok, err := store.Get(TokenKey)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "load session")
	}
	if ok {
		s.token = tok
	}
	return s, nil
}

// Token returns the current bearer token. ok is false when there is none or when the
// token is a JWT whose exp claim has passed. Opaque tokens are never considered expired.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()
	if tok == "" {
		return "", false
	}
	if exp, ok := expiry(tok); ok && !s.now().Before(exp) {
		logger.L().Debug("session token expired", zap.Time("exp", exp))
		return "", false
	}
	return tok, true
}

// Authenticated reports whether a usable token is held.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Set replaces the token and persists it.
func (s *Session) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Put(TokenKey, token); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "persist session")
	}
	s.token = token
	return nil
}

// Invalidate drops the token, in memory and in the store.
func (s *Session) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := s.store.Delete(TokenKey); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "clear session")
	}
	return nil
}

// Subject returns the sub claim of a JWT token, if any.
func (s *Session) Subject() string {
	tok, ok := s.Token()
	if !ok {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// expiry reads exp without verifying the signature; the backend verifies, the console
// only avoids sending a token it knows is dead.
func expiry(tok string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
