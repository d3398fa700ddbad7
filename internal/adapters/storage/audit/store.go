package audit

import (
	"context"
	"time"

	domain "gymdesk/internal/domain/audit"
)

// Store defines the interface for audit event persistence.
type Store interface {
	// Save persists an audit event.
	// PRE: event has an ID and timestamp
	// POST: Event is persisted
	Save(ctx context.Context, event domain.Event) error

	// List returns events matching filter, newest first.
	// PRE: limit > 0
	List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error)

	// GetByID retrieves a specific audit event.
	// POST: returns sql.ErrNoRows when absent
	GetByID(ctx context.Context, id string) (domain.Event, error)
}

// Filter narrows List. Zero fields do not filter.
type Filter struct {
	Category domain.Category
	Action   domain.Action
	Severity domain.Severity
	MemberID int64
	Since    time.Time
}

var _ Store = (*SQLiteStore)(nil)
