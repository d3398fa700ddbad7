package outbox

import (
	"context"

	domain "gymdesk/internal/domain/outbox"
)

// Store persists outbox entries.
type Store interface {
	// Save inserts or updates an entry.
	// PRE: e.Validate() == nil
	Save(ctx context.Context, e domain.Entry) error

	// GetByID retrieves an entry.
	// POST: returns sql.ErrNoRows when absent
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// ListPending returns pending and retrying entries, oldest first.
	// PRE: limit > 0
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListFailed returns entries that exhausted their attempts, most recent attempt first.
	// PRE: limit > 0
	ListFailed(ctx context.Context, limit int) ([]domain.Entry, error)
}

var _ Store = (*SQLiteStore)(nil)
