package period

import "time"

// Remaining is the number of whole days left in a period.
// Unbounded is set when the period has no end date; Days is meaningless then.
type Remaining struct {
	Days      int
	Unbounded bool
}

// DaysRemaining counts calendar days from now to end.
// PRE: none
// POST: 0 on the end date, negative after it, Unbounded when end is nil
// INVARIANT: both sides are truncated to midnight before subtracting
func DaysRemaining(end *time.Time, now time.Time) Remaining {
	if end == nil || end.IsZero() {
		return Remaining{Unbounded: true}
	}
	return Remaining{Days: civilDays(*end) - civilDays(now)}
}

// civilDays returns the day number of t's calendar date, independent of DST.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// Expired reports whether the end date has passed.
func (r Remaining) Expired() bool {
	return !r.Unbounded && r.Days < 0
}

// ExpiryState classifies a remaining period for display.
type ExpiryState string

const (
	ExpiryNone    ExpiryState = "none"
	ExpiryOK      ExpiryState = "ok"
	ExpirySoon    ExpiryState = "soon"
	ExpiryExpired ExpiryState = "expired"
)

// SoonThresholdDays is the window in which a period counts as expiring soon.
const SoonThresholdDays = 7

// Expiry classifies r for table colouring.
func Expiry(r Remaining) ExpiryState {
	switch {
	case r.Unbounded:
		return ExpiryNone
	case r.Days < 0:
		return ExpiryExpired
	case r.Days <= SoonThresholdDays:
		return ExpirySoon
	default:
		return ExpiryOK
	}
}
