package audit

import (
	"time"

	"github.com/google/uuid"
)

// Category groups audit events by the area they touch.
type Category string

const (
	CategoryAuth     Category = "auth"
	CategoryMember   Category = "member"
	CategoryRecovery Category = "recovery"
)

// Action is what the staff member did.
type Action string

const (
	ActionLogin          Action = "login"
	ActionLogout         Action = "logout"
	ActionPasswordChange Action = "password_change"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionRestore        Action = "restore"
	ActionRestoreAll     Action = "restore_all"
	ActionPurge          Action = "purge"
	ActionPurgeAll       Action = "purge_all"
)

// Severity marks how reversible the action was.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is one admin action performed through this frontend.
// The backend keeps the authoritative data; this is the operator trail.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Action      Action    `json:"action"`
	Severity    Severity  `json:"severity"`
	SessionRef  string    `json:"session_ref"`
	MemberID    int64     `json:"member_id,omitempty"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
}

// NewEvent creates an event stamped now with a severity derived from the action.
// PRE: action is non-empty
// POST: ID is a fresh UUID
func NewEvent(category Category, action Action) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Category:  category,
		Action:    action,
		Severity:  severityFor(action),
	}
}

func severityFor(a Action) Severity {
	switch a {
	case ActionPurge, ActionPurgeAll:
		return SeverityCritical
	case ActionDelete, ActionRestoreAll, ActionPasswordChange:
		return SeverityWarning
	}
	return SeverityInfo
}

// WithMember sets the member the action applied to.
func (e Event) WithMember(id int64) Event {
	e.MemberID = id
	return e
}

// WithSession records a short, non-reversible reference to the admin session.
func (e Event) WithSession(ref string) Event {
	e.SessionRef = ref
	return e
}

// WithDescription sets the event description.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithRequest sets IP address and user agent from the HTTP request.
func (e Event) WithRequest(ipAddress, userAgent string) Event {
	e.IPAddress = ipAddress
	e.UserAgent = userAgent
	return e
}
