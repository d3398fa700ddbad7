package kiosk

import (
	"errors"
	"strings"
	"time"
)

// SuffixLength is the number of trailing phone digits a member types.
const SuffixLength = 4

// OverlayDismiss is how long a result overlay stays before the kiosk resets.
const OverlayDismiss = 3 * time.Second

// Domain errors
var (
	ErrInvalidSuffix    = errors.New("phone suffix must be exactly 4 digits")
	ErrNoSelection      = errors.New("a candidate must be selected")
	ErrUnknownCandidate = errors.New("selected member is not among the candidates")
)

// ValidateSuffix checks that s is exactly four ASCII digits.
func ValidateSuffix(s string) error {
	if len(s) != SuffixLength {
		return ErrInvalidSuffix
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ErrInvalidSuffix
		}
	}
	return nil
}

// Action is the attendance transition requested for a member.
type Action string

const (
	ActionCheckIn  Action = "checkin"
	ActionCheckOut Action = "checkout"
)

// Decide picks the transition from the member's current presence.
// Present members leave; everyone else enters.
func Decide(active bool) Action {
	if active {
		return ActionCheckOut
	}
	return ActionCheckIn
}

// Opposite returns the other transition.
func (a Action) Opposite() Action {
	if a == ActionCheckIn {
		return ActionCheckOut
	}
	return ActionCheckIn
}

// Candidate is one member shown on the disambiguation screen.
type Candidate struct {
	MemberID    int64
	MaskedName  string
	MaskedPhone string
	Active      bool
}

// Pick returns the candidate with the given member id.
// PRE: id > 0 for an explicit selection
// POST: never falls back to another candidate
func Pick(candidates []Candidate, id int64) (Candidate, error) {
	if id <= 0 {
		return Candidate{}, ErrNoSelection
	}
	for _, c := range candidates {
		if c.MemberID == id {
			return c, nil
		}
	}
	return Candidate{}, ErrUnknownCandidate
}

// OverlayKind selects the overlay styling.
type OverlayKind string

const (
	OverlaySuccess OverlayKind = "success"
	OverlayError   OverlayKind = "error"
	OverlayInfo    OverlayKind = "info"
)

// Overlay is a transient full-screen message that resets the kiosk when dismissed.
type Overlay struct {
	Kind         OverlayKind
	Title        string
	Lines        []string
	DismissAfter time.Duration
}

// NewOverlay builds an overlay with the standard dismissal delay.
func NewOverlay(kind OverlayKind, title string, lines ...string) Overlay {
	return Overlay{Kind: kind, Title: title, Lines: lines, DismissAfter: OverlayDismiss}
}

// DismissSeconds returns the delay in whole seconds, rounded up.
func (o Overlay) DismissSeconds() int {
	return int((o.DismissAfter + time.Second - 1) / time.Second)
}

// Text joins the title and lines with newlines.
func (o Overlay) Text() string {
	return strings.Join(append([]string{o.Title}, o.Lines...), "\n")
}
