package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"gymdesk/internal/domain/audit"
	"gymdesk/internal/domain/member"
)

// AdminForSaveMember defines the backend calls needed by SaveMember.
type AdminForSaveMember interface {
	CreateMember(ctx context.Context, f member.Form) (member.Member, error)
	UpdateMember(ctx context.Context, f member.Form) (member.Member, error)
}

// SaveMemberInput carries the drawer form being saved.
type SaveMemberInput struct {
	Form  member.Form
	Actor Actor
}

// SaveMemberDeps holds dependencies for SaveMember.
type SaveMemberDeps struct {
	Admin AdminForSaveMember
	Audit AuditRecorder
}

// SaveMemberResult reports what was saved.
type SaveMemberResult struct {
	Member  member.Member
	Created bool
}

// ExecuteSaveMember creates or updates a member from the drawer form.
// PRE: none; the form is validated here
// POST: on success the backend holds the normalized form and one audit event is recorded
// INVARIANT: a form that fails validation makes no network call
func ExecuteSaveMember(ctx context.Context, input SaveMemberInput, deps SaveMemberDeps) (SaveMemberResult, error) {
	if err := input.Form.Validate(); err != nil {
		return SaveMemberResult{}, err
	}
	f := input.Form.Normalized()

	var (
		saved  member.Member
		err    error
		action = audit.ActionUpdate
	)
	if f.IsNew() {
		action = audit.ActionCreate
		saved, err = deps.Admin.CreateMember(ctx, f)
	} else {
		saved, err = deps.Admin.UpdateMember(ctx, f)
	}
	if err != nil {
		slog.Warn("admin_event", "event", "member_save_failed", "member_id", f.ID, "error", err)
		return SaveMemberResult{}, err
	}
	if saved.ID == 0 {
		saved.ID = f.ID
	}

	recordAudit(ctx, deps.Audit, input.Actor,
		audit.NewEvent(audit.CategoryMember, action).
			WithMember(saved.ID).
			WithDescription(fmt.Sprintf("%s member %s", action, member.MaskName(f.Name))))
	slog.Info("admin_event", "event", "member_"+string(action)+"d", "member_id", saved.ID)
	return SaveMemberResult{Member: saved, Created: action == audit.ActionCreate}, nil
}
