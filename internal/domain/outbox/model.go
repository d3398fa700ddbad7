package outbox

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status of an outbox entry.
const (
	StatusPending  = "pending"
	StatusRetrying = "retrying"
	StatusDone     = "done"
	StatusFailed   = "failed"
)

// KindStaffNotice is a staff email that could not be delivered on first try.
const KindStaffNotice = "staff_notice"

// DefaultMaxAttempts bounds retries for entries created without a limit.
const DefaultMaxAttempts = 5

var (
	ErrEmptyKind    = errors.New("outbox kind is required")
	ErrEmptyPayload = errors.New("outbox payload is required")
)

// Entry is one deferred side effect, replayed from its JSON payload.
type Entry struct {
	ID              string
	Kind            string
	Payload         string
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	ExternalID      string // provider message id once delivered
	LastError       string
}

// NewEntry creates a pending entry.
// POST: ID is a fresh UUID; MaxAttempts is DefaultMaxAttempts
func NewEntry(kind, payload string, now time.Time) Entry {
	return Entry{
		ID:          uuid.New().String(),
		Kind:        kind,
		Payload:     payload,
		Status:      StatusPending,
		MaxAttempts: DefaultMaxAttempts,
		CreatedAt:   now.UTC(),
	}
}

// Validate checks the fields a store relies on.
func (e Entry) Validate() error {
	if e.Kind == "" {
		return ErrEmptyKind
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// CanRetry reports whether another attempt is allowed.
func (e Entry) CanRetry() bool {
	return (e.Status == StatusPending || e.Status == StatusRetrying) && e.Attempts < e.MaxAttempts
}

// Due reports whether the backoff since the last attempt has elapsed.
func (e Entry) Due(now time.Time, base, max time.Duration) bool {
	if e.LastAttemptedAt.IsZero() {
		return true
	}
	return !now.Before(e.LastAttemptedAt.Add(e.NextRetryDelay(base, max)))
}

// MarkAttempt records an attempt starting at now.
// POST: Attempts incremented, Status == StatusRetrying
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now.UTC()
	e.Status = StatusRetrying
}

// MarkSuccess closes the entry.
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.LastError = ""
}

// MarkFailed keeps the error; the entry fails for good once attempts are exhausted.
func (e *Entry) MarkFailed(err error) {
	e.LastError = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// NextRetryDelay doubles base per attempt, capped at max.
func (e Entry) NextRetryDelay(base, max time.Duration) time.Duration {
	if e.Attempts >= 30 {
		return max
	}
	delay := base * (1 << e.Attempts)
	if delay > max || delay <= 0 {
		return max
	}
	return delay
}
