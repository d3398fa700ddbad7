package projections

import (
	"strconv"
	"time"

	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/period"
)

// PeriodCell is one dated resource as a table cell.
type PeriodCell struct {
	Present   bool
	Type      period.Label
	Start     string
	End       string
	Remaining period.Remaining
	State     period.ExpiryState
}

func periodCell(p *member.Period, now time.Time) PeriodCell {
	if p == nil || p.Type == "" {
		return PeriodCell{State: period.ExpiryNone, Remaining: period.Remaining{Unbounded: true}}
	}
	rem := p.Remaining(now)
	c := PeriodCell{
		Present:   true,
		Type:      p.Type,
		Start:     period.FormatDate(p.Start),
		Remaining: rem,
		State:     period.Expiry(rem),
	}
	if !p.End.IsZero() {
		c.End = period.FormatDate(p.End)
	}
	return c
}

// MemberRow is a member prepared for the admin table.
type MemberRow struct {
	ID           int64
	DisplayRank  int
	Name         string
	Gender       string
	Phone        string
	Active       bool
	CheckInAt    string
	CheckOutAt   string
	Membership   PeriodCell
	Locker       PeriodCell
	LockerNumber string
	Uniform      PeriodCell
	DeletedAt    string
}

const stampLayout = "2006-01-02 15:04"

func stamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(stampLayout)
}

func memberRow(m member.Member, rank int, now time.Time) MemberRow {
	row := MemberRow{
		ID:          m.ID,
		DisplayRank: rank,
		Name:        m.Name,
		Gender:      m.Gender.Label(),
		Phone:       member.FormatPhone(m.Phone),
		Active:      m.Active,
		CheckInAt:   stamp(m.CheckInAt),
		CheckOutAt:  stamp(m.CheckOutAt),
		Membership:  periodCell(m.Membership, now),
		Uniform:     periodCell(m.Uniform, now),
		DeletedAt:   stamp(m.DeletedAt),
	}
	if m.Locker != nil {
		row.Locker = periodCell(&m.Locker.Period, now)
		if m.Locker.Number != nil {
			row.LockerNumber = strconv.Itoa(*m.Locker.Number)
		}
	} else {
		row.Locker = periodCell(nil, now)
	}
	return row
}
