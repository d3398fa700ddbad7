package member

import (
	"errors"
	"time"

	"gymdesk/internal/domain/period"
)

// Gender is the member's recorded gender.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Valid reports whether g is one of the recognised values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Label returns the display label for the gender.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "남"
	case GenderFemale:
		return "여"
	}
	return ""
}

// Domain errors
var (
	ErrNameRequired        = errors.New("name is required")
	ErrNameFormat          = errors.New("name must be 2-10 Hangul or 2-20 Latin letters")
	ErrPhoneRequired       = errors.New("phone number is required")
	ErrPhoneFormat         = errors.New("phone number must be an 11-digit mobile number")
	ErrGenderRequired      = errors.New("gender is required")
	ErrMembershipRequired  = errors.New("membership type is required")
	ErrStartRequired       = errors.New("membership start date is required")
	ErrIncompleteLocker    = errors.New("locker needs type, start and end dates")
	ErrIncompleteUniform   = errors.New("uniform needs type, start and end dates")
	ErrEndNotDerived       = errors.New("end date must follow from start date and type")
	ErrTypeNotSelected     = errors.New("select a type before changing the start date")
	ErrUnknownPeriodLabel  = errors.New("unknown period label")
	ErrUnknownResourceKind = errors.New("unknown resource")
)

// Period is a dated (type, start, end) triple.
// A present Period always carries all three fields.
type Period struct {
	Type  period.Label
	Start time.Time
	End   time.Time
}

// NewPeriod builds a Period whose end date is derived from start and label.
// PRE: label is known
// POST: End == period.ComputeEndDate(start, label)
func NewPeriod(label period.Label, start time.Time) Period {
	start = period.Midnight(start)
	return Period{Type: label, Start: start, End: period.ComputeEndDate(start, label)}
}

// Complete reports whether every field of the triple is set.
// INVARIANT: Period fields are not mutated
func (p Period) Complete() bool {
	return p.Type != "" && !p.Start.IsZero() && !p.End.IsZero()
}

// Remaining returns days left until End.
func (p *Period) Remaining(now time.Time) period.Remaining {
	if p == nil {
		return period.Remaining{Unbounded: true}
	}
	return period.DaysRemaining(&p.End, now)
}

// Locker is a locker rental; Number is assigned by the server only.
type Locker struct {
	Period
	Number *int
}

// Member is the client-side view of a backend member record.
type Member struct {
	ID         int64
	Rank       int
	Name       string
	Gender     Gender
	Phone      string
	Active     bool
	CreatedAt  time.Time
	DeletedAt  *time.Time
	Membership *Period
	Locker     *Locker
	Uniform    *Period
	CheckInAt  *time.Time
	CheckOutAt *time.Time
}

// IsDeleted reports whether the member sits in the recovery list.
// INVARIANT: Member fields are not mutated
func (m Member) IsDeleted() bool {
	return m.DeletedAt != nil
}

// MembershipRemaining returns days left on the membership.
func (m Member) MembershipRemaining(now time.Time) period.Remaining {
	return m.Membership.Remaining(now)
}

// LockerRemaining returns days left on the locker rental.
func (m Member) LockerRemaining(now time.Time) period.Remaining {
	if m.Locker == nil {
		return period.Remaining{Unbounded: true}
	}
	return m.Locker.Period.Remaining(now)
}

// UniformRemaining returns days left on the uniform rental.
func (m Member) UniformRemaining(now time.Time) period.Remaining {
	return m.Uniform.Remaining(now)
}

// MaskedName returns the name as shown to other kiosk users.
func (m Member) MaskedName() string {
	return MaskName(m.Name)
}

// MaskedPhone returns the phone number with the middle group hidden.
func (m Member) MaskedPhone() string {
	return MaskPhone(m.Phone)
}
