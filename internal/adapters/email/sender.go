package email

import (
	"context"
	"time"
)

// SendRequest is one message handed to a provider.
type SendRequest struct {
	To      []string // Recipient addresses
	From    string   // Sender, e.g. "GymDesk <desk@example.com>"; empty uses the sender default
	Subject string
	HTML    string
	Text    string // Plain-text alternative
}

// SendResult is the provider's acknowledgement.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers email through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
