package orchestrators

import (
	"context"
	"log/slog"

	"gymdesk/internal/domain/audit"
)

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Save(ctx context.Context, e audit.Event) error
}

// Actor identifies who performed an admin action.
type Actor struct {
	SessionRef string
	IPAddress  string
	UserAgent  string
}

// recordAudit writes an event stamped with the actor.
// The backend already committed the change, so a failed write is logged and swallowed.
func recordAudit(ctx context.Context, rec AuditRecorder, actor Actor, e audit.Event) {
	if rec == nil {
		return
	}
	e = e.WithSession(actor.SessionRef).WithRequest(actor.IPAddress, actor.UserAgent)
	if err := rec.Save(ctx, e); err != nil {
		slog.Error("audit_write_failed", "action", e.Action, "member_id", e.MemberID, "error", err)
	}
}
