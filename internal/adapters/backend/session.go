package backend

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the bearer token for one staff login.
// The client reads it on every call and clears it when the backend rejects it.
type Session interface {
	Token() string
	SetToken(token string)
	ClearToken()
}

// MemorySession is a Session backed by a single guarded string.
// The zero value is an anonymous session.
type MemorySession struct {
	mu    sync.Mutex
	token string
}

// NewMemorySession returns a session pre-loaded with token.
func NewMemorySession(token string) *MemorySession {
	return &MemorySession{token: token}
}

// Token returns the current token or "".
func (s *MemorySession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken replaces the token.
func (s *MemorySession) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// ClearToken drops the token.
func (s *MemorySession) ClearToken() {
	s.SetToken("")
}

// TokenExpiry returns the exp claim of a JWT bearer token.
// The signature is not verified: only the backend can do that, and this is
// used solely to avoid sending a token that is already known to be stale.
// ok is false for opaque tokens or tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return time.Time{}, false
	}
	return nd.Time, true
}

// tokenExpired reports whether token carries an exp claim at or before now.
func tokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !now.Before(exp)
}
