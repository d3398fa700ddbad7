package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"gymdesk/internal/domain/audit"
)

// AdminForDeleteMember defines the backend call needed by DeleteMember.
type AdminForDeleteMember interface {
	DeleteMember(ctx context.Context, id int64) error
}

// DeleteMemberInput carries input for the delete orchestrator.
type DeleteMemberInput struct {
	MemberID int64
	Actor    Actor
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	Admin AdminForDeleteMember
	Audit AuditRecorder
}

// ErrMemberIDRequired is returned when no member is named.
var ErrMemberIDRequired = errors.New("member ID is required")

// ExecuteDeleteMember soft-deletes a member; it can be restored from the recovery view.
// PRE: MemberID > 0
// POST: the member leaves the active list and a warning-level audit event is recorded
func ExecuteDeleteMember(ctx context.Context, input DeleteMemberInput, deps DeleteMemberDeps) error {
	if input.MemberID <= 0 {
		return ErrMemberIDRequired
	}

	if err := deps.Admin.DeleteMember(ctx, input.MemberID); err != nil {
		slog.Warn("admin_event", "event", "member_delete_failed", "member_id", input.MemberID, "error", err)
		return err
	}

	recordAudit(ctx, deps.Audit, input.Actor,
		audit.NewEvent(audit.CategoryMember, audit.ActionDelete).
			WithMember(input.MemberID).
			WithDescription("member moved to deleted list"))
	slog.Info("admin_event", "event", "member_deleted", "member_id", input.MemberID)
	return nil
}
