package drawer

import (
	"errors"
	"net/url"
	"strconv"
	"time"
)

// CloseTransition is how long the drawer slides out before the list replaces it.
const CloseTransition = 300 * time.Millisecond

// State is the admin detail drawer mode.
type State string

const (
	Browsing State = "browsing"
	Viewing  State = "viewing"
	Editing  State = "editing"
	Adding   State = "adding"
)

// ErrInvalidTransition is returned when an event does not apply to the current state.
var ErrInvalidTransition = errors.New("invalid drawer transition")

// Drawer tracks which member (if any) the drawer shows.
// MemberID is zero while Browsing or Adding.
type Drawer struct {
	State    State
	MemberID int64
}

// Open shows a member's details.
// PRE: State is Browsing or Viewing
// POST: State == Viewing, MemberID == id
func (d Drawer) Open(id int64) (Drawer, error) {
	if id <= 0 || (d.State != Browsing && d.State != Viewing) {
		return d, ErrInvalidTransition
	}
	return Drawer{State: Viewing, MemberID: id}, nil
}

// Edit switches the open member into edit mode.
// PRE: State == Viewing
func (d Drawer) Edit() (Drawer, error) {
	if d.State != Viewing {
		return d, ErrInvalidTransition
	}
	return Drawer{State: Editing, MemberID: d.MemberID}, nil
}

// Add opens an empty form for a new member.
// PRE: State == Browsing
func (d Drawer) Add() (Drawer, error) {
	if d.State != Browsing {
		return d, ErrInvalidTransition
	}
	return Drawer{State: Adding}, nil
}

// Cancel abandons an edit and returns to the details view.
// PRE: State == Editing
func (d Drawer) Cancel() (Drawer, error) {
	if d.State != Editing {
		return d, ErrInvalidTransition
	}
	return Drawer{State: Viewing, MemberID: d.MemberID}, nil
}

// Close dismisses the drawer from any open state.
// POST: State == Browsing
func (d Drawer) Close() (Drawer, error) {
	if d.State == Browsing {
		return d, ErrInvalidTransition
	}
	return Drawer{State: Browsing}, nil
}

// Saved ends an edit or add after a successful write; the list is refetched.
// PRE: State is Editing or Adding
// POST: State == Browsing
func (d Drawer) Saved() (Drawer, error) {
	if d.State != Editing && d.State != Adding {
		return d, ErrInvalidTransition
	}
	return Drawer{State: Browsing}, nil
}

// IsOpen reports whether the drawer is visible.
func (d Drawer) IsOpen() bool {
	return d.State != Browsing && d.State != ""
}

// FromQuery reads the drawer from URL parameters: view=<id>, edit=<id> or add=1.
// Unknown or malformed values yield Browsing.
func FromQuery(q url.Values) Drawer {
	if id, err := strconv.ParseInt(q.Get("edit"), 10, 64); err == nil && id > 0 {
		return Drawer{State: Editing, MemberID: id}
	}
	if id, err := strconv.ParseInt(q.Get("view"), 10, 64); err == nil && id > 0 {
		return Drawer{State: Viewing, MemberID: id}
	}
	if q.Get("add") == "1" {
		return Drawer{State: Adding}
	}
	return Drawer{State: Browsing}
}

// Encode writes the drawer into q, removing stale drawer keys.
func (d Drawer) Encode(q url.Values) {
	q.Del("view")
	q.Del("edit")
	q.Del("add")
	switch d.State {
	case Viewing:
		q.Set("view", strconv.FormatInt(d.MemberID, 10))
	case Editing:
		q.Set("edit", strconv.FormatInt(d.MemberID, 10))
	case Adding:
		q.Set("add", "1")
	}
}

// DisplayRank numbers a table row.
// Ascending order counts up from the page offset; otherwise the top row is
// total-offset and rows count down.
// PRE: index >= 0, offset >= 0
func DisplayRank(ascending bool, total, offset, index int) int {
	if ascending {
		return offset + index + 1
	}
	return total - offset - index
}
