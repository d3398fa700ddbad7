package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gymdesk/internal/adapters/email"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	domainOutbox "gymdesk/internal/domain/outbox"
)

// Outbox retry defaults.
const (
	OutboxBatchSize     = 50
	OutboxBaseDelay     = time.Minute
	OutboxMaxDelay      = time.Hour
	OutboxRetryInterval = time.Minute
)

// OutboxRetryDeps holds dependencies for OutboxRetry.
type OutboxRetryDeps struct {
	Outbox outboxStore.Store
	Sender email.Sender
	Now    func() time.Time // optional: defaults to time.Now
}

// OutboxRetryResult counts what one pass did.
type OutboxRetryResult struct {
	Attempted int
	Delivered int
	Failed    int
	Skipped   int // still inside their backoff window
}

// ExecuteOutboxRetry replays queued staff notices whose backoff has elapsed.
// PRE: deps.Outbox and deps.Sender are non-nil
// POST: every attempted entry is saved with its new status
func ExecuteOutboxRetry(ctx context.Context, deps OutboxRetryDeps) (OutboxRetryResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	entries, err := deps.Outbox.ListPending(ctx, OutboxBatchSize)
	if err != nil {
		return OutboxRetryResult{}, fmt.Errorf("list pending outbox entries: %w", err)
	}

	var res OutboxRetryResult
	for _, entry := range entries {
		if !entry.Due(now(), OutboxBaseDelay, OutboxMaxDelay) {
			res.Skipped++
			continue
		}
		res.Attempted++
		entry.MarkAttempt(now())

		messageID, err := replay(ctx, deps.Sender, entry)
		if err != nil {
			entry.MarkFailed(err)
			res.Failed++
			slog.Warn("outbox_retry_failed", "entry_id", entry.ID, "kind", entry.Kind, "attempt", entry.Attempts, "error", err)
		} else {
			entry.MarkSuccess(messageID)
			res.Delivered++
			slog.Info("outbox_retry_delivered", "entry_id", entry.ID, "kind", entry.Kind, "attempt", entry.Attempts)
		}
		if err := deps.Outbox.Save(ctx, entry); err != nil {
			slog.Error("outbox_save_failed", "entry_id", entry.ID, "error", err)
		}
	}
	if res.Attempted > 0 {
		slog.Info("outbox_retry_complete", "attempted", res.Attempted, "delivered", res.Delivered, "failed", res.Failed)
	}
	return res, nil
}

func replay(ctx context.Context, sender email.Sender, entry domainOutbox.Entry) (string, error) {
	if entry.Kind != domainOutbox.KindStaffNotice {
		return "", fmt.Errorf("unknown outbox kind %q", entry.Kind)
	}
	var req email.SendRequest
	if err := json.Unmarshal([]byte(entry.Payload), &req); err != nil {
		return "", fmt.Errorf("decode staff notice: %w", err)
	}
	sent, err := sender.Send(ctx, req)
	if err != nil {
		return "", err
	}
	return sent.MessageID, nil
}

// StartOutboxRetryScheduler runs ExecuteOutboxRetry every interval until ctx ends.
// POST: returns a stop function; calling it more than once is safe
func StartOutboxRetryScheduler(ctx context.Context, deps OutboxRetryDeps, interval time.Duration) func() {
	if interval <= 0 {
		interval = OutboxRetryInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := ExecuteOutboxRetry(ctx, deps); err != nil {
					slog.Error("outbox_retry_scheduler_error", "error", err)
				}
			}
		}
	}()
	return cancel
}
