package projections

import (
	"context"
	"time"

	auditStore "gymdesk/internal/adapters/storage/audit"
	domainAudit "gymdesk/internal/domain/audit"
)

// AuditTrailLimit caps how many events the audit page shows.
const AuditTrailLimit = 200

// GetAuditTrailQuery carries the audit page filters as raw form values.
type GetAuditTrailQuery struct {
	Category string
	Action   string
	Severity string
	Days     int // only events from the last N days; 0 shows everything
}

// GetAuditTrailResult carries the query result.
type GetAuditTrailResult struct {
	Events []domainAudit.Event
	Filter auditStore.Filter
}

// GetAuditTrailDeps holds dependencies for GetAuditTrail.
type GetAuditTrailDeps struct {
	Audit AuditReader
	Now   func() time.Time
}

// QueryGetAuditTrail lists recent audit events, newest first.
// PRE: none; unknown filter values are ignored
// POST: len(Events) <= AuditTrailLimit
func QueryGetAuditTrail(ctx context.Context, query GetAuditTrailQuery, deps GetAuditTrailDeps) (GetAuditTrailResult, error) {
	f := auditStore.Filter{}
	switch c := domainAudit.Category(query.Category); c {
	case domainAudit.CategoryAuth, domainAudit.CategoryMember, domainAudit.CategoryRecovery:
		f.Category = c
	}
	if query.Action != "" {
		f.Action = domainAudit.Action(query.Action)
	}
	switch s := domainAudit.Severity(query.Severity); s {
	case domainAudit.SeverityInfo, domainAudit.SeverityWarning, domainAudit.SeverityCritical:
		f.Severity = s
	}
	if query.Days > 0 {
		f.Since = nowFn(deps.Now)().AddDate(0, 0, -query.Days)
	}

	events, err := deps.Audit.List(ctx, f, AuditTrailLimit)
	if err != nil {
		return GetAuditTrailResult{}, err
	}
	return GetAuditTrailResult{Events: events, Filter: f}, nil
}
