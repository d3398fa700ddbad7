package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gymdesk/internal/adapters/email"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	domainOutbox "gymdesk/internal/domain/outbox"
)

// StaffNotifier emails staff about irreversible bulk actions.
// A nil notifier or an empty recipient list disables notification.
// With an Outbox, a failed send is queued for ExecuteOutboxRetry.
type StaffNotifier struct {
	Sender email.Sender
	From   string
	To     []string
	Outbox outboxStore.Store
}

// notify composes and sends a markdown notice. Failures are logged, never returned.
func (n *StaffNotifier) notify(ctx context.Context, subject, markdown string) {
	if n == nil || n.Sender == nil {
		return
	}
	req, err := email.Compose(n.To, subject, markdown)
	if errors.Is(err, email.ErrNoRecipient) {
		return
	}
	if err != nil {
		slog.Error("staff_notice_failed", "subject", subject, "error", err)
		return
	}
	req.From = n.From
	res, err := n.Sender.Send(ctx, req)
	if err != nil {
		slog.Error("staff_notice_failed", "subject", subject, "error", err)
		n.enqueue(ctx, req)
		return
	}
	slog.Info("staff_notice_sent", "subject", subject, "message_id", res.MessageID)
}

func (n *StaffNotifier) enqueue(ctx context.Context, req email.SendRequest) {
	if n.Outbox == nil {
		return
	}
	payload, err := json.Marshal(req)
	if err != nil {
		slog.Error("staff_notice_enqueue_failed", "subject", req.Subject, "error", err)
		return
	}
	entry := domainOutbox.NewEntry(domainOutbox.KindStaffNotice, string(payload), time.Now())
	if err := n.Outbox.Save(context.WithoutCancel(ctx), entry); err != nil {
		slog.Error("staff_notice_enqueue_failed", "subject", req.Subject, "error", err)
		return
	}
	slog.Info("staff_notice_queued", "subject", req.Subject, "entry_id", entry.ID)
}
