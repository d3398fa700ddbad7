package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/domain/audit"
)

// AdminForLogin defines the backend call needed by Login.
type AdminForLogin interface {
	Login(ctx context.Context, password string) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Password string
	Actor    Actor
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Admin AdminForLogin
	Audit AuditRecorder
}

var (
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidCredentials = errors.New("invalid password")
)

// ExecuteLogin exchanges the staff password for a backend session token.
// PRE: none
// POST: on success the session behind deps.Admin holds a token and an auth event is recorded
// INVARIANT: an empty password never reaches the backend
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) error {
	if input.Password == "" {
		return ErrPasswordRequired
	}

	if err := deps.Admin.Login(ctx, input.Password); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			slog.Info("auth_event", "event", "login_failed", "ip", input.Actor.IPAddress, "reason", "wrong_password")
			return ErrInvalidCredentials
		}
		slog.Warn("auth_event", "event", "login_failed", "ip", input.Actor.IPAddress, "error", err)
		return err
	}

	recordAudit(ctx, deps.Audit, input.Actor,
		audit.NewEvent(audit.CategoryAuth, audit.ActionLogin).WithDescription("staff login"))
	slog.Info("auth_event", "event", "login_success", "session", input.Actor.SessionRef)
	return nil
}

// LogoutInput carries input for the logout orchestrator.
type LogoutInput struct {
	Actor Actor
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Session backend.Session
	Audit   AuditRecorder
}

// ExecuteLogout drops the bearer token. The backend has no logout endpoint.
// POST: deps.Session.Token() == ""
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LogoutDeps) {
	hadToken := deps.Session.Token() != ""
	deps.Session.ClearToken()
	if hadToken {
		recordAudit(ctx, deps.Audit, input.Actor,
			audit.NewEvent(audit.CategoryAuth, audit.ActionLogout).WithDescription("staff logout"))
	}
	slog.Info("auth_event", "event", "logout", "session", input.Actor.SessionRef)
}
