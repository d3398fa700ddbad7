package member

import (
	"strings"
	"time"

	"gymdesk/internal/domain/period"
)

// Resource names one of the dated sub-records edited in the drawer.
type Resource string

const (
	ResourceMembership Resource = "membership"
	ResourceLocker     Resource = "locker"
	ResourceUniform    Resource = "uniform"
)

// ParseResource maps a form value to a Resource.
func ParseResource(s string) (Resource, error) {
	switch r := Resource(s); r {
	case ResourceMembership, ResourceLocker, ResourceUniform:
		return r, nil
	}
	return "", ErrUnknownResourceKind
}

// Form is the editable state of a member in the admin drawer.
// ID is zero while adding a new member.
type Form struct {
	ID         int64
	Name       string
	Phone      string
	Gender     Gender
	Membership *Period
	Locker     *Locker
	Uniform    *Period
}

// FormFrom copies a member into an editable form.
// POST: the form shares no pointers with m
func FormFrom(m Member) Form {
	f := Form{
		ID:     m.ID,
		Name:   m.Name,
		Phone:  FormatPhone(m.Phone),
		Gender: m.Gender,
	}
	if m.Membership != nil {
		p := *m.Membership
		f.Membership = &p
	}
	if m.Locker != nil {
		l := *m.Locker
		if m.Locker.Number != nil {
			n := *m.Locker.Number
			l.Number = &n
		}
		f.Locker = &l
	}
	if m.Uniform != nil {
		p := *m.Uniform
		f.Uniform = &p
	}
	return f
}

// IsNew reports whether the form creates a member rather than updating one.
func (f Form) IsNew() bool {
	return f.ID == 0
}

// Toggle selects a type for a resource, or clears it when the same type is chosen again.
// Membership keeps an existing start date; locker and uniform restart on today.
// A changed locker type drops the locker number so the server assigns a new one.
// PRE: label is a known label for the resource
// POST: the resource is either absent or a complete triple
func (f *Form) Toggle(res Resource, label period.Label, today time.Time) error {
	if !label.Known() {
		return ErrUnknownPeriodLabel
	}
	today = period.Midnight(today)

	switch res {
	case ResourceMembership:
		if f.Membership != nil && f.Membership.Type == label {
			f.Membership = nil
			return nil
		}
		start := today
		if f.Membership != nil && !f.Membership.Start.IsZero() {
			start = f.Membership.Start
		}
		p := NewPeriod(label, start)
		f.Membership = &p
	case ResourceLocker:
		if label.IsPT() {
			return ErrUnknownPeriodLabel
		}
		if f.Locker != nil && f.Locker.Type == label {
			f.Locker = nil
			return nil
		}
		f.Locker = &Locker{Period: NewPeriod(label, today)}
	case ResourceUniform:
		if label.IsPT() {
			return ErrUnknownPeriodLabel
		}
		if f.Uniform != nil && f.Uniform.Type == label {
			f.Uniform = nil
			return nil
		}
		p := NewPeriod(label, today)
		f.Uniform = &p
	default:
		return ErrUnknownResourceKind
	}
	return nil
}

// SetStart moves a resource's start date and recomputes its end date.
// PRE: the resource already has a type
// POST: End == period.ComputeEndDate(start, Type)
func (f *Form) SetStart(res Resource, start time.Time) error {
	var p *Period
	switch res {
	case ResourceMembership:
		p = f.Membership
	case ResourceLocker:
		if f.Locker != nil {
			p = &f.Locker.Period
		}
	case ResourceUniform:
		p = f.Uniform
	default:
		return ErrUnknownResourceKind
	}
	if p == nil {
		return ErrTypeNotSelected
	}
	*p = NewPeriod(p.Type, start)
	return nil
}

// Validate checks the form before any network call is made.
// PRE: none
// POST: returns the first failing rule, or nil; on nil every present
// period has a known type and End == period.ComputeEndDate(Start, Type)
func (f Form) Validate() error {
	if err := ValidateName(f.Name); err != nil {
		return err
	}
	if err := ValidatePhone(f.Phone); err != nil {
		return err
	}
	if !f.Gender.Valid() {
		return ErrGenderRequired
	}
	if f.Membership == nil || f.Membership.Type == "" {
		return ErrMembershipRequired
	}
	if f.Membership.Start.IsZero() {
		return ErrStartRequired
	}
	if err := checkDerived(*f.Membership, true); err != nil {
		return err
	}
	if f.Locker != nil {
		if !f.Locker.Complete() {
			return ErrIncompleteLocker
		}
		if err := checkDerived(f.Locker.Period, false); err != nil {
			return err
		}
	}
	if f.Uniform != nil {
		if !f.Uniform.Complete() {
			return ErrIncompleteUniform
		}
		if err := checkDerived(*f.Uniform, false); err != nil {
			return err
		}
	}
	return nil
}

// checkDerived rejects unknown labels and end dates that were not computed.
// PT labels are only valid for memberships.
func checkDerived(p Period, allowPT bool) error {
	if !p.Type.Known() || (p.Type.IsPT() && !allowPT) {
		return ErrUnknownPeriodLabel
	}
	if !p.End.Equal(period.ComputeEndDate(p.Start, p.Type)) {
		return ErrEndNotDerived
	}
	return nil
}

// Normalized returns the form with trimmed name and digits-only phone.
func (f Form) Normalized() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = Digits(f.Phone)
	return f
}
