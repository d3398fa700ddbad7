package email

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// ErrNoRecipient is returned when a staff notice has nowhere to go.
var ErrNoRecipient = errors.New("email: no recipient configured")

// subjectPrefix tags every staff notice.
const subjectPrefix = "[GymDesk] "

// Compose builds a staff notice from a markdown body.
// The markdown is kept as the plain-text part and rendered to HTML.
// PRE: subject is non-empty
// POST: To contains only non-blank addresses; returns ErrNoRecipient when none remain
func Compose(to []string, subject, markdown string) (SendRequest, error) {
	var rcpt []string
	for _, addr := range to {
		if a := strings.TrimSpace(addr); a != "" {
			rcpt = append(rcpt, a)
		}
	}
	if len(rcpt) == 0 {
		return SendRequest{}, ErrNoRecipient
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return SendRequest{}, fmt.Errorf("render notice: %w", err)
	}
	return SendRequest{
		To:      rcpt,
		Subject: subjectPrefix + subject,
		HTML:    buf.String(),
		Text:    markdown,
	}, nil
}
