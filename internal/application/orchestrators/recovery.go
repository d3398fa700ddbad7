package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gymdesk/internal/domain/audit"
)

// DeletedBackend is the recovery slice of the REST backend.
type DeletedBackend interface {
	Restore(ctx context.Context, id int64) (string, error)
	RestoreAll(ctx context.Context) (string, error)
	Purge(ctx context.Context, id int64) (string, error)
	PurgeAll(ctx context.Context) (string, error)
}

// RecoveryInput names the deleted member to act on. MemberID is ignored by the bulk actions.
type RecoveryInput struct {
	MemberID int64
	Actor    Actor
}

// RecoveryDeps holds dependencies for the recovery orchestrators.
type RecoveryDeps struct {
	Deleted  DeletedBackend
	Audit    AuditRecorder
	Notifier *StaffNotifier
	Now      func() time.Time // optional: defaults to time.Now
}

func (d RecoveryDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ExecuteRestoreMember moves one deleted member back to the active list.
// PRE: MemberID > 0
// POST: returns the backend's message and records a recovery audit event
func ExecuteRestoreMember(ctx context.Context, input RecoveryInput, deps RecoveryDeps) (string, error) {
	if input.MemberID <= 0 {
		return "", ErrMemberIDRequired
	}
	msg, err := deps.Deleted.Restore(ctx, input.MemberID)
	if err != nil {
		slog.Warn("admin_event", "event", "member_restore_failed", "member_id", input.MemberID, "error", err)
		return "", err
	}
	recordAudit(ctx, deps.Audit, input.Actor,
		audit.NewEvent(audit.CategoryRecovery, audit.ActionRestore).
			WithMember(input.MemberID).
			WithDescription(msg))
	slog.Info("admin_event", "event", "member_restored", "member_id", input.MemberID)
	return msg, nil
}

// ExecutePurgeMember permanently deletes one deleted member.
// PRE: MemberID > 0; the caller has obtained explicit confirmation
// POST: the member and its history are gone from the backend; a critical audit event is recorded
func ExecutePurgeMember(ctx context.Context, input RecoveryInput, deps RecoveryDeps) (string, error) {
	if input.MemberID <= 0 {
		return "", ErrMemberIDRequired
	}
	msg, err := deps.Deleted.Purge(ctx, input.MemberID)
	if err != nil {
		slog.Warn("admin_event", "event", "member_purge_failed", "member_id", input.MemberID, "error", err)
		return "", err
	}
	recordAudit(ctx, deps.Audit, input.Actor,
		audit.NewEvent(audit.CategoryRecovery, audit.ActionPurge).
			WithMember(input.MemberID).
			WithDescription(msg))
	slog.Info("admin_event", "event", "member_purged", "member_id", input.MemberID)
	return msg, nil
}

// ExecuteRestoreAllMembers restores every deleted member and notifies staff.
// PRE: the caller has obtained explicit confirmation
// POST: returns the backend's message; one audit event and at most one email are produced
func ExecuteRestoreAllMembers(ctx context.Context, input RecoveryInput, deps RecoveryDeps) (string, error) {
	msg, err := deps.Deleted.RestoreAll(ctx)
	if err != nil {
		slog.Warn("admin_event", "event", "restore_all_failed", "error", err)
		return "", err
	}
	recordAudit(ctx, deps.Audit, input.Actor,
		audit.NewEvent(audit.CategoryRecovery, audit.ActionRestoreAll).WithDescription(msg))
	deps.Notifier.notify(ctx, "All deleted members restored", bulkNotice("restored", msg, input.Actor, deps.now()))
	slog.Info("admin_event", "event", "members_restored_all")
	return msg, nil
}

// ExecutePurgeAllMembers permanently deletes every deleted member and notifies staff.
// PRE: the caller has obtained explicit confirmation
// POST: returns the backend's message; one critical audit event and at most one email are produced
func ExecutePurgeAllMembers(ctx context.Context, input RecoveryInput, deps RecoveryDeps) (string, error) {
	msg, err := deps.Deleted.PurgeAll(ctx)
	if err != nil {
		slog.Warn("admin_event", "event", "purge_all_failed", "error", err)
		return "", err
	}
	recordAudit(ctx, deps.Audit, input.Actor,
		audit.NewEvent(audit.CategoryRecovery, audit.ActionPurgeAll).WithDescription(msg))
	deps.Notifier.notify(ctx, "All deleted members permanently removed", bulkNotice("permanently removed", msg, input.Actor, deps.now()))
	slog.Info("admin_event", "event", "members_purged_all")
	return msg, nil
}

func bulkNotice(verb, msg string, actor Actor, at time.Time) string {
	body := fmt.Sprintf("Every member in the deleted list was **%s**.\n\n", verb)
	if msg != "" {
		body += "Backend response: " + msg + "\n\n"
	}
	body += fmt.Sprintf("- Time: %s\n- From: %s\n", at.Format("2006-01-02 15:04"), actor.IPAddress)
	return body
}
