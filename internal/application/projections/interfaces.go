package projections

import (
	"context"

	"gymdesk/internal/adapters/backend"
	auditStore "gymdesk/internal/adapters/storage/audit"
	domainAudit "gymdesk/internal/domain/audit"
	"gymdesk/internal/domain/checkin"
	"gymdesk/internal/domain/filter"
	"gymdesk/internal/domain/member"
)

// MemberReader is the read side of the admin backend.
type MemberReader interface {
	ListMembers(ctx context.Context, q filter.Query) (backend.MemberPage, error)
	GetMember(ctx context.Context, id int64) (member.Member, error)
	CheckIns(ctx context.Context, id int64) ([]checkin.Record, error)
}

// TodayReader returns today's visits.
type TodayReader interface {
	TodayCheckIns(ctx context.Context) ([]checkin.Record, error)
}

// DeletedReader lists soft-deleted members.
type DeletedReader interface {
	List(ctx context.Context, search string, page, size int) (backend.MemberPage, error)
}

// AuditReader lists local audit events.
type AuditReader interface {
	List(ctx context.Context, f auditStore.Filter, limit int) ([]domainAudit.Event, error)
}
