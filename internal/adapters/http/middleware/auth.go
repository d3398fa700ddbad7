package middleware

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// Session is one browser's admin session. The backend bearer token lives
// here, server-side; the browser only ever sees the opaque session ID.
type Session struct {
	ID           string    `json:"-"`
	BackendToken string    `json:"token"`
	CreatedAt    time.Time `json:"created_at"`
}

// Authenticated reports whether the session holds a backend token.
// INVARIANT: Session fields are not mutated
func (s Session) Authenticated() bool {
	return s.BackendToken != ""
}

// Ref returns a short, non-reversible reference for audit records.
func (s Session) Ref() string {
	if s.ID == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.ID))
	return hex.EncodeToString(sum[:6])
}

// SessionStore persists sessions by ID.
type SessionStore interface {
	// Create stores a fresh anonymous session.
	// POST: returned session has a new random ID
	Create(ctx context.Context) (Session, error)
	// Get returns the session for id when present and not expired.
	Get(ctx context.Context, id string) (Session, bool)
	// Save replaces the stored session.
	// PRE: s.ID is non-empty
	Save(ctx context.Context, s Session) error
	// Delete removes the session.
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-process SessionStore.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]Session
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory store whose sessions live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &MemoryStore{ttl: ttl, sessions: make(map[string]Session)}
}

// Create stores a new anonymous session.
func (ms *MemoryStore) Create(_ context.Context) (Session, error) {
	id, err := generateToken()
	if err != nil {
		return Session{}, err
	}
	s := Session{ID: id, CreatedAt: time.Now()}
	ms.mu.Lock()
	ms.sessions[id] = s
	ms.mu.Unlock()
	return s, nil
}

// Get retrieves a session by ID.
// POST: expired sessions are removed and reported missing
func (ms *MemoryStore) Get(_ context.Context, id string) (Session, bool) {
	ms.mu.RLock()
	s, ok := ms.sessions[id]
	ms.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Since(s.CreatedAt) > ms.ttl {
		ms.mu.Lock()
		delete(ms.sessions, id)
		ms.mu.Unlock()
		return Session{}, false
	}
	return s, true
}

// Save replaces a session in place.
func (ms *MemoryStore) Save(_ context.Context, s Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[s.ID] = s
	return nil
}

// Delete removes a session by ID.
func (ms *MemoryStore) Delete(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, id)
	return nil
}

const SessionCookieName = "gymdesk_session"

// SecureCookies marks the session cookie Secure. Set from config in production.
var SecureCookies bool

// Auth returns middleware that loads the session named by the cookie into the context.
// It does NOT block anonymous requests; use RequireAdmin for that.
func Auth(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if s, ok := store.Get(r.Context(), cookie.Value); ok {
					s.ID = cookie.Value
					r = r.WithContext(ContextWithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin blocks requests without a backend token.
// Pages redirect to the login form; /admin/api/ callers get 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := GetSessionFromContext(r.Context()); ok && s.Authenticated() {
			next.ServeHTTP(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/admin/api/") {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(Session)
	return s, ok
}

// ContextWithSession returns a context carrying sess.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie. It has no Max-Age, so it ends with the browser session.
func SetSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
