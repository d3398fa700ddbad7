package checkin

import (
	"strconv"
	"time"
)

// Record is a single visit: a check-in and, once the member leaves, a check-out.
type Record struct {
	ID              int64
	MemberID        int64
	MemberName      string
	CheckInAt       time.Time
	CheckOutAt      *time.Time
	DurationMinutes *int
}

// IsOpen reports whether the member has not checked out yet.
// INVARIANT: Record fields are not mutated
func (r Record) IsOpen() bool {
	return r.CheckOutAt == nil
}

// Duration returns the length of the visit.
// The backend's duration wins when present; an open record measures up to now.
// PRE: CheckInAt is set
// POST: never negative
func (r Record) Duration(now time.Time) time.Duration {
	if r.DurationMinutes != nil {
		return time.Duration(*r.DurationMinutes) * time.Minute
	}
	end := now
	if r.CheckOutAt != nil {
		end = *r.CheckOutAt
	}
	d := end.Sub(r.CheckInAt)
	if d < 0 {
		return 0
	}
	return d
}

// FormatDuration renders a duration as "1시간 5분" or "45분".
func FormatDuration(d time.Duration) string {
	mins := int(d / time.Minute)
	if mins < 60 {
		return strconv.Itoa(mins) + "분"
	}
	h, m := mins/60, mins%60
	if m == 0 {
		return strconv.Itoa(h) + "시간"
	}
	return strconv.Itoa(h) + "시간 " + strconv.Itoa(m) + "분"
}
