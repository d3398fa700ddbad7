package backend

import (
	"strings"
	"time"

	"gymdesk/internal/domain/checkin"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/period"
)

// timestampLayouts are the shapes the backend uses for datetimes.
// Layouts without a zone are read in the client's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseTimestamp reads a backend datetime. Empty or unparseable input yields nil.
func parseTimestamp(s *string, loc *time.Location) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, v)
		} else {
			t, err = time.ParseInLocation(layout, v, loc)
		}
		if err == nil {
			t = t.In(loc)
			return &t
		}
	}
	if d := parseDate(s, loc); d != nil {
		return d
	}
	return nil
}

// parseDate reads a backend date, tolerating a trailing time part.
func parseDate(s *string, loc *time.Location) *time.Time {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if len(v) > len(period.DateLayout) {
		v = v[:len(period.DateLayout)]
	}
	t, err := period.ParseDate(v, loc)
	if err != nil {
		return nil
	}
	return &t
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// wireMember is a member as the backend serialises it.
type wireMember struct {
	MemberID            int64   `json:"member_id"`
	MemberRank          *int    `json:"member_rank"`
	Name                string  `json:"name"`
	PhoneNumber         string  `json:"phone_number"`
	Gender              string  `json:"gender"`
	MembershipType      *string `json:"membership_type"`
	MembershipStartDate *string `json:"membership_start_date"`
	MembershipEndDate   *string `json:"membership_end_date"`
	LockerNumber        *int    `json:"locker_number"`
	LockerType          *string `json:"locker_type"`
	LockerStartDate     *string `json:"locker_start_date"`
	LockerEndDate       *string `json:"locker_end_date"`
	UniformType         *string `json:"uniform_type"`
	UniformStartDate    *string `json:"uniform_start_date"`
	UniformEndDate      *string `json:"uniform_end_date"`
	IsActive            bool    `json:"is_active"`
	CreatedAt           *string `json:"created_at"`
	DeletedAt           *string `json:"deleted_at"`
	CheckinTime         *string `json:"checkin_time"`
	CheckoutTime        *string `json:"checkout_time"`
}

// wirePeriod converts an optional (type, start, end) triple.
// A triple with no type is absent. A missing end date is derived from start.
func wirePeriod(typ, start, end *string, loc *time.Location) *member.Period {
	label := period.Label(strings.TrimSpace(deref(typ)))
	if label == "" {
		return nil
	}
	p := member.Period{Type: label}
	if s := parseDate(start, loc); s != nil {
		p.Start = *s
	}
	if e := parseDate(end, loc); e != nil {
		p.End = *e
	} else if !p.Start.IsZero() {
		p.End = period.ComputeEndDate(p.Start, label)
	}
	return &p
}

func (w wireMember) toDomain(loc *time.Location) member.Member {
	m := member.Member{
		ID:         w.MemberID,
		Name:       w.Name,
		Gender:     member.Gender(strings.ToUpper(strings.TrimSpace(w.Gender))),
		Phone:      member.Digits(w.PhoneNumber),
		Active:     w.IsActive,
		DeletedAt:  parseTimestamp(w.DeletedAt, loc),
		CheckInAt:  parseTimestamp(w.CheckinTime, loc),
		CheckOutAt: parseTimestamp(w.CheckoutTime, loc),
		Membership: wirePeriod(w.MembershipType, w.MembershipStartDate, w.MembershipEndDate, loc),
		Uniform:    wirePeriod(w.UniformType, w.UniformStartDate, w.UniformEndDate, loc),
	}
	if w.MemberRank != nil {
		m.Rank = *w.MemberRank
	}
	if c := parseTimestamp(w.CreatedAt, loc); c != nil {
		m.CreatedAt = *c
	}
	if p := wirePeriod(w.LockerType, w.LockerStartDate, w.LockerEndDate, loc); p != nil {
		m.Locker = &member.Locker{Period: *p, Number: w.LockerNumber}
	}
	return m
}

func toMembers(ws []wireMember, loc *time.Location) []member.Member {
	out := make([]member.Member, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain(loc))
	}
	return out
}

// memberPayload is the create body. Cleared sub-records are sent as null.
type memberPayload struct {
	Name                string  `json:"name"`
	PhoneNumber         string  `json:"phone_number"`
	Gender              string  `json:"gender"`
	MembershipType      string  `json:"membership_type"`
	MembershipStartDate string  `json:"membership_start_date"`
	MembershipEndDate   string  `json:"membership_end_date"`
	LockerType          *string `json:"locker_type"`
	LockerStartDate     *string `json:"locker_start_date"`
	LockerEndDate       *string `json:"locker_end_date"`
	UniformType         *string `json:"uniform_type"`
	UniformStartDate    *string `json:"uniform_start_date"`
	UniformEndDate      *string `json:"uniform_end_date"`
}

// updatePayload adds the locker number; null asks the server to assign one.
type updatePayload struct {
	memberPayload
	LockerNumber *int `json:"locker_number"`
}

// newMemberPayload builds the request body from a validated form.
// PRE: f.Validate() == nil
func newMemberPayload(f member.Form) memberPayload {
	f = f.Normalized()
	p := memberPayload{
		Name:        f.Name,
		PhoneNumber: f.Phone,
		Gender:      string(f.Gender),
	}
	if f.Membership != nil {
		p.MembershipType = string(f.Membership.Type)
		p.MembershipStartDate = period.FormatDate(f.Membership.Start)
		p.MembershipEndDate = period.FormatDate(f.Membership.End)
	}
	if f.Locker != nil {
		p.LockerType = optString(string(f.Locker.Type))
		p.LockerStartDate = optString(period.FormatDate(f.Locker.Start))
		p.LockerEndDate = optString(period.FormatDate(f.Locker.End))
	}
	if f.Uniform != nil {
		p.UniformType = optString(string(f.Uniform.Type))
		p.UniformStartDate = optString(period.FormatDate(f.Uniform.Start))
		p.UniformEndDate = optString(period.FormatDate(f.Uniform.End))
	}
	return p
}

func newUpdatePayload(f member.Form) updatePayload {
	u := updatePayload{memberPayload: newMemberPayload(f)}
	if f.Locker != nil {
		u.LockerNumber = f.Locker.Number
	}
	return u
}

// wireCheckIn is one attendance record.
type wireCheckIn struct {
	CheckinID       int64   `json:"checkin_id"`
	MemberID        int64   `json:"member_id"`
	MemberName      string  `json:"member_name"`
	CheckinTime     *string `json:"checkin_time"`
	CheckoutTime    *string `json:"checkout_time"`
	DurationMinutes *int    `json:"duration_minutes"`
}

func (w wireCheckIn) toDomain(loc *time.Location) checkin.Record {
	r := checkin.Record{
		ID:              w.CheckinID,
		MemberID:        w.MemberID,
		MemberName:      w.MemberName,
		CheckOutAt:      parseTimestamp(w.CheckoutTime, loc),
		DurationMinutes: w.DurationMinutes,
	}
	if t := parseTimestamp(w.CheckinTime, loc); t != nil {
		r.CheckInAt = *t
	}
	return r
}

func toRecords(ws []wireCheckIn, loc *time.Location) []checkin.Record {
	out := make([]checkin.Record, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toDomain(loc))
	}
	return out
}
