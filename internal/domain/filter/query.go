package filter

import "strings"

// Sort keys understood by the backend list endpoint.
const (
	SortRecentCheckIn = "recent_checkin"
	SortMemberAsc     = "member_id"
	SortMemberDesc    = "-member_id"
)

// Status filters carried alongside the tabs.
const (
	StatusActive       = "active"
	StatusInactive     = "inactive"
	StatusExpiringSoon = "expiring_soon"
)

// PageSize is the fixed admin table page size.
const PageSize = 20

// Query is the backend list request derived from a Config.
type Query struct {
	Page             int
	Size             int
	Search           string
	Status           string
	Gender           string
	SortBy           string
	MembershipFilter string
	CheckInStatus    string
	LockerFilter     bool
	UniformFilter    bool
}

// ValidStatus reports whether s is an accepted status filter (empty included).
func ValidStatus(s string) bool {
	switch s {
	case "", StatusActive, StatusInactive, StatusExpiringSoon:
		return true
	}
	return false
}

// Query derives list parameters from the configuration.
// PRE: page >= 1
// POST: SortBy is always set; Size is PageSize
func (c Config) Query(search, status string, page int) Query {
	if page < 1 {
		page = 1
	}
	if !ValidStatus(status) {
		status = ""
	}
	q := Query{
		Page:   page,
		Size:   PageSize,
		Search: strings.TrimSpace(search),
		Status: status,
		Gender: c.Gender(),
		SortBy: SortRecentCheckIn,
	}
	switch {
	case c.Has(TabMemberOrder):
		q.SortBy = SortMemberAsc
	case c.Has(TabAll):
		q.SortBy = SortMemberDesc
	}
	switch {
	case c.Has(TabPT):
		q.MembershipFilter = "pt"
	case c.Has(TabRegular):
		q.MembershipFilter = "regular"
	}
	switch {
	case c.Has(TabActive):
		q.CheckInStatus = "active"
	case c.Has(TabInactive):
		q.CheckInStatus = "inactive"
	}
	q.LockerFilter = c.Has(TabLocker)
	q.UniformFilter = c.Has(TabUniform)
	return q
}

// Offset returns the number of rows before the requested page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Size
}
