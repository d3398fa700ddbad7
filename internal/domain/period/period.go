package period

import (
	"strings"
	"time"
)

// Label names a rental or membership duration as the backend stores it.
type Label string

const (
	OneMonth    Label = "1개월"
	ThreeMonths Label = "3개월"
	SixMonths   Label = "6개월"
	OneYear     Label = "1년"
)

const ptPrefix = "PT("

// DateLayout is the wire and form layout for calendar dates.
const DateLayout = "2006-01-02"

// Labels lists the plain duration labels in display order.
var Labels = []Label{OneMonth, ThreeMonths, SixMonths, OneYear}

// offsets maps each plain label to its calendar offset (years, months).
var offsets = map[Label][2]int{
	OneMonth:    {0, 1},
	ThreeMonths: {0, 3},
	SixMonths:   {0, 6},
	OneYear:     {1, 0},
}

// PT wraps a plain label as its personal-training variant, e.g. "PT(3개월)".
func PT(l Label) Label {
	return Label(ptPrefix + string(l) + ")")
}

// IsPT reports whether the label is a personal-training variant.
func (l Label) IsPT() bool {
	s := string(l)
	return strings.HasPrefix(s, ptPrefix) && strings.HasSuffix(s, ")")
}

// Base returns the plain label, unwrapping a PT variant.
func (l Label) Base() Label {
	if l.IsPT() {
		s := string(l)
		return Label(s[len(ptPrefix) : len(s)-1])
	}
	return l
}

// Known reports whether the label (or its PT inner label) has a defined offset.
func (l Label) Known() bool {
	_, ok := offsets[l.Base()]
	return ok
}

// MembershipLabels returns the plain labels followed by their PT variants.
func MembershipLabels() []Label {
	out := make([]Label, 0, len(Labels)*2)
	out = append(out, Labels...)
	for _, l := range Labels {
		out = append(out, PT(l))
	}
	return out
}

// ComputeEndDate derives the end date of a period.
// PRE: start is a calendar date
// POST: returns start plus the label's offset; unknown labels return start unchanged.
// Month arithmetic normalises overflow (Jan 31 + 1 month = Mar 3 or Mar 2).
func ComputeEndDate(start time.Time, l Label) time.Time {
	off, ok := offsets[l.Base()]
	if !ok {
		return start
	}
	return start.AddDate(off[0], off[1], 0)
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD string as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
