package web

import (
	"context"
	"log/slog"
	"net/http"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/orchestrators"
)

// sessionToken exposes a stored admin session as a backend.Session.
// Token changes are written back to the store so they survive the request.
type sessionToken struct {
	ctx   context.Context
	store middleware.SessionStore
	sess  *middleware.Session
}

var _ backend.Session = (*sessionToken)(nil)

func (s *sessionToken) Token() string { return s.sess.BackendToken }

func (s *sessionToken) SetToken(token string) {
	s.sess.BackendToken = token
	s.persist()
}

func (s *sessionToken) ClearToken() {
	if s.sess.BackendToken == "" {
		return
	}
	s.sess.BackendToken = ""
	s.persist()
}

func (s *sessionToken) persist() {
	if s.sess.ID == "" || s.store == nil {
		return
	}
	if err := s.store.Save(s.ctx, *s.sess); err != nil {
		slog.Error("session_save_failed", "session", s.sess.Ref(), "error", err)
	}
}

// adminClient returns a backend client bound to the request's admin session.
func adminClient(r *http.Request) (*backend.Client, *sessionToken) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	tok := &sessionToken{ctx: r.Context(), store: app.Sessions, sess: &sess}
	return backend.New(app.Backend, tok), tok
}

// kioskClient returns an anonymous backend client; the kiosk never logs in.
func kioskClient() *backend.Client {
	return backend.New(app.Backend, backend.NewMemorySession(""))
}

// actorFrom identifies the admin behind a request for audit records.
func actorFrom(r *http.Request) orchestrators.Actor {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return orchestrators.Actor{
		SessionRef: sess.Ref(),
		IPAddress:  middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	}
}
