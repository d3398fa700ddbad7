package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/outbox"
)

// timestampLayout is fixed-width UTC so text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `SELECT id, kind, payload, status, attempts, max_attempts, last_attempted_at, created_at, external_id, last_error FROM outbox_entry`

// SQLiteStore implements Store on the local SQLite database.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new outbox store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts or updates an entry.
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	lastAttempted := ""
	if !e.LastAttemptedAt.IsZero() {
		lastAttempted = e.LastAttemptedAt.UTC().Format(timestampLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outbox_entry (id, kind, payload, status, attempts, max_attempts, last_attempted_at, created_at, external_id, last_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, attempts=excluded.attempts, max_attempts=excluded.max_attempts,
		   last_attempted_at=excluded.last_attempted_at, external_id=excluded.external_id,
		   last_error=excluded.last_error`,
		e.ID, e.Kind, e.Payload, e.Status, e.Attempts, e.MaxAttempts,
		lastAttempted, e.CreatedAt.UTC().Format(timestampLayout), e.ExternalID, e.LastError)
	if err != nil {
		return fmt.Errorf("save outbox entry: %w", err)
	}
	return nil
}

// GetByID retrieves an entry.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	return scanEntry(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
}

// ListPending returns pending and retrying entries, oldest first.
func (s *SQLiteStore) ListPending(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.list(ctx, selectColumns+` WHERE status IN (?, ?) ORDER BY created_at ASC LIMIT ?`,
		domain.StatusPending, domain.StatusRetrying, limit)
}

// ListFailed returns entries that exhausted their attempts, most recent attempt first.
func (s *SQLiteStore) ListFailed(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.list(ctx, selectColumns+` WHERE status = ? ORDER BY last_attempted_at DESC LIMIT ?`,
		domain.StatusFailed, limit)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outbox entries: %w", err)
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var (
		e                        domain.Entry
		createdAt, lastAttempted string
	)
	if err := row.Scan(&e.ID, &e.Kind, &e.Payload, &e.Status, &e.Attempts, &e.MaxAttempts,
		&lastAttempted, &createdAt, &e.ExternalID, &e.LastError); err != nil {
		return domain.Entry{}, err
	}
	var err error
	if e.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return domain.Entry{}, fmt.Errorf("outbox entry %s: bad created_at: %w", e.ID, err)
	}
	if lastAttempted != "" {
		e.LastAttemptedAt, _ = time.Parse(timestampLayout, lastAttempted)
	}
	return e, nil
}

var _ scanner = (*sql.Row)(nil)
