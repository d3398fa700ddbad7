package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"gymdesk/internal/domain/audit"
)

// MinPasswordLength is the shortest staff password accepted.
const MinPasswordLength = 4

// AdminForChangePassword defines the backend call needed by ChangePassword.
type AdminForChangePassword interface {
	ChangePassword(ctx context.Context, current, next string) (string, error)
}

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
	Actor           Actor
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	Admin AdminForChangePassword
	Audit AuditRecorder
}

var (
	ErrPasswordFieldsRequired = errors.New("all fields are required")
	ErrPasswordMismatch       = errors.New("new password and confirmation do not match")
	ErrPasswordTooShort       = errors.New("new password must be at least 4 characters")
	ErrNewPasswordSame        = errors.New("new password must be different from current password")
)

// ExecuteChangePassword validates the new password locally, then asks the backend to change it.
// PRE: none
// POST: returns the backend's confirmation message on success
// INVARIANT: a locally invalid request never reaches the backend
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) (string, error) {
	if input.CurrentPassword == "" || input.NewPassword == "" || input.ConfirmPassword == "" {
		return "", ErrPasswordFieldsRequired
	}
	if input.NewPassword != input.ConfirmPassword {
		return "", ErrPasswordMismatch
	}
	if utf8.RuneCountInString(input.NewPassword) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if input.CurrentPassword == input.NewPassword {
		return "", ErrNewPasswordSame
	}

	msg, err := deps.Admin.ChangePassword(ctx, input.CurrentPassword, input.NewPassword)
	if err != nil {
		slog.Warn("auth_event", "event", "password_change_failed", "error", err)
		return "", err
	}

	recordAudit(ctx, deps.Audit, input.Actor,
		audit.NewEvent(audit.CategoryAuth, audit.ActionPasswordChange).WithDescription("staff password changed"))
	slog.Info("auth_event", "event", "password_changed", "session", input.Actor.SessionRef)
	return msg, nil
}
