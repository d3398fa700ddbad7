package web

import (
	"errors"
	"log/slog"
	"net/http"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/orchestrators"
)

// Admin-facing messages.
const (
	msgPasswordRequired   = "비밀번호를 입력해주세요."
	msgInvalidCredentials = "비밀번호가 올바르지 않습니다."
	msgLoginFailed        = "로그인에 실패했습니다."
	msgSessionExpired     = "세션이 만료되었습니다. 다시 로그인해주세요."
	msgPasswordChanged    = "비밀번호가 변경되었습니다."
	msgPasswordFailed     = "비밀번호 변경에 실패했습니다."
)

var passwordMessages = map[error]string{
	orchestrators.ErrPasswordFieldsRequired: "모든 항목을 입력해주세요.",
	orchestrators.ErrPasswordMismatch:       "새 비밀번호가 일치하지 않습니다.",
	orchestrators.ErrPasswordTooShort:       "새 비밀번호는 4자 이상이어야 합니다.",
	orchestrators.ErrNewPasswordSame:        "새 비밀번호는 현재 비밀번호와 달라야 합니다.",
}

type loginPage struct {
	Error  string
	Notice string
}

// sessionLost redirects to the login form when the backend rejected the token.
// The backend client has already cleared the token from the session.
func sessionLost(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	slog.Info("auth_event", "event", "session_expired", "path", r.URL.Path)
	http.Redirect(w, r, "/admin/login?expired=1", http.StatusSeeOther)
	return true
}

// handleAdminLoginPage handles GET /admin/login
func handleAdminLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok && sess.Authenticated() {
		http.Redirect(w, r, "/admin/members", http.StatusSeeOther)
		return
	}
	page := loginPage{}
	if r.URL.Query().Get("expired") == "1" {
		page.Notice = msgSessionExpired
	}
	renderTemplate(w, r, "admin_login.html", page)
}

// handleAdminLogin handles POST /admin/login.
// A fresh session is issued on every login; any previous one is discarded.
func handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	if old, ok := middleware.GetSessionFromContext(ctx); ok && old.ID != "" {
		app.Sessions.Delete(ctx, old.ID)
	}

	sess, err := app.Sessions.Create(ctx)
	if err != nil {
		internalError(w, err)
		return
	}
	tok := &sessionToken{ctx: ctx, store: app.Sessions, sess: &sess}
	actor := actorFrom(r)
	actor.SessionRef = sess.Ref()

	err = orchestrators.ExecuteLogin(ctx, orchestrators.LoginInput{
		Password: r.FormValue("password"),
		Actor:    actor,
	}, orchestrators.LoginDeps{
		Admin: backend.New(app.Backend, tok).Admin(),
		Audit: app.Audit,
	})
	if err != nil {
		app.Sessions.Delete(ctx, sess.ID)
		msg := backend.Message(err, msgLoginFailed)
		switch {
		case errors.Is(err, orchestrators.ErrPasswordRequired):
			msg = msgPasswordRequired
		case errors.Is(err, orchestrators.ErrInvalidCredentials):
			msg = msgInvalidCredentials
		}
		renderStatus(w, r, http.StatusUnauthorized, "admin_login.html", loginPage{Error: msg})
		return
	}

	middleware.SetSessionCookie(w, sess.ID)
	http.Redirect(w, r, "/admin/members", http.StatusSeeOther)
}

// handleAdminLogout handles POST /admin/logout
func handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, tok := adminClient(r)
	orchestrators.ExecuteLogout(ctx, orchestrators.LogoutInput{Actor: actorFrom(r)},
		orchestrators.LogoutDeps{Session: tok, Audit: app.Audit})
	if tok.sess.ID != "" {
		if err := app.Sessions.Delete(ctx, tok.sess.ID); err != nil {
			slog.Error("session_delete_failed", "session", tok.sess.Ref(), "error", err)
		}
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

type passwordPage struct {
	Error  string
	Notice string
}

// handleAdminPasswordPage handles GET /admin/password
func handleAdminPasswordPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "admin_password.html", passwordPage{})
}

// handleAdminPassword handles POST /admin/password
func handleAdminPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	client, _ := adminClient(r)
	msg, err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		Actor:           actorFrom(r),
	}, orchestrators.ChangePasswordDeps{Admin: client.Admin(), Audit: app.Audit})
	if err != nil {
		if sessionLost(w, r, err) {
			return
		}
		text, ok := passwordMessages[err]
		if !ok {
			text = backend.Message(err, msgPasswordFailed)
		}
		renderStatus(w, r, http.StatusUnprocessableEntity, "admin_password.html", passwordPage{Error: text})
		return
	}
	if msg == "" {
		msg = msgPasswordChanged
	}
	renderTemplate(w, r, "admin_password.html", passwordPage{Notice: msg})
}
