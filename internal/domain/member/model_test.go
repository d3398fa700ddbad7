package member_test

import (
	"errors"
	"testing"
	"time"

	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/period"
)

var today = time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

func validForm() member.Form {
	p := member.NewPeriod(period.ThreeMonths, today)
	return member.Form{
		Name:       "홍길동",
		Phone:      "010-1234-5678",
		Gender:     member.GenderMale,
		Membership: &p,
	}
}

// TestMaskName tests kiosk name masking.
func TestMaskName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"홍길동", "홍○동"},
		{"이수", "이○"},
		{"남궁민수", "남○수"},
		{"김", "김"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := member.MaskName(tt.in); got != tt.want {
			t.Errorf("MaskName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestMaskPhone tests candidate phone masking.
func TestMaskPhone(t *testing.T) {
	if got := member.MaskPhone("01012345678"); got != "010-****-5678" {
		t.Errorf("MaskPhone() = %q", got)
	}
	if got := member.MaskPhone("010-9876-5432"); got != "010-****-5432" {
		t.Errorf("MaskPhone() hyphenated = %q", got)
	}
	if got := member.MaskPhone("1234"); got != "****" {
		t.Errorf("MaskPhone() short = %q", got)
	}
}

// TestFormatPhone tests 3-4-4 auto formatting.
func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"010", "010"},
		{"0101", "010-1"},
		{"0101234", "010-1234"},
		{"01012345", "010-1234-5"},
		{"01012345678", "010-1234-5678"},
		{"010-1234-56789", "010-1234-5678"},
	}
	for _, tt := range tests {
		if got := member.FormatPhone(tt.in); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestForm_Validate tests the admin drawer validation rules.
func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *member.Form)
		wantErr error
	}{
		{"valid", func(f *member.Form) {}, nil},
		{"latin name", func(f *member.Form) { f.Name = "John Doe" }, nil},
		{"phone without hyphens", func(f *member.Form) { f.Phone = "01012345678" }, nil},
		{"empty name", func(f *member.Form) { f.Name = "  " }, member.ErrNameRequired},
		{"mixed script name", func(f *member.Form) { f.Name = "홍Gil" }, member.ErrNameFormat},
		{"name too long", func(f *member.Form) { f.Name = "가나다라마바사아자차카" }, member.ErrNameFormat},
		{"empty phone", func(f *member.Form) { f.Phone = "" }, member.ErrPhoneRequired},
		{"short phone", func(f *member.Form) { f.Phone = "010-123-5678" }, member.ErrPhoneFormat},
		{"011 prefix", func(f *member.Form) { f.Phone = "011-9876-5432" }, member.ErrPhoneFormat},
		{"016 prefix without hyphens", func(f *member.Form) { f.Phone = "01698765432" }, member.ErrPhoneFormat},
		{"one latin letter", func(f *member.Form) { f.Name = "A" }, member.ErrNameFormat},
		{"one hangul syllable", func(f *member.Form) { f.Name = "홍" }, member.ErrNameFormat},
		{"missing gender", func(f *member.Form) { f.Gender = "" }, member.ErrGenderRequired},
		{"missing membership", func(f *member.Form) { f.Membership = nil }, member.ErrMembershipRequired},
		{"missing start", func(f *member.Form) { f.Membership.Start = time.Time{} }, member.ErrStartRequired},
		{"incomplete locker", func(f *member.Form) {
			f.Locker = &member.Locker{Period: member.Period{Type: period.OneMonth}}
		}, member.ErrIncompleteLocker},
		{"incomplete uniform", func(f *member.Form) {
			f.Uniform = &member.Period{Type: period.OneMonth, Start: today}
		}, member.ErrIncompleteUniform},
		{"pt membership", func(f *member.Form) {
			p := member.NewPeriod(period.PT(period.SixMonths), today)
			f.Membership = &p
		}, nil},
		{"derived locker", func(f *member.Form) {
			f.Locker = &member.Locker{Period: member.NewPeriod(period.OneMonth, today)}
		}, nil},
		{"unknown membership type", func(f *member.Form) { f.Membership.Type = "99년" }, member.ErrUnknownPeriodLabel},
		{"pt uniform", func(f *member.Form) {
			p := member.NewPeriod(period.PT(period.OneMonth), today)
			f.Uniform = &p
		}, member.ErrUnknownPeriodLabel},
		{"end before start", func(f *member.Form) {
			f.Membership.End = f.Membership.Start.AddDate(0, 0, -1)
		}, member.ErrEndNotDerived},
		{"end edited by hand", func(f *member.Form) {
			f.Membership.End = time.Date(2031, 12, 31, 0, 0, 0, 0, time.UTC)
		}, member.ErrEndNotDerived},
		{"stale end after start change", func(f *member.Form) {
			f.Membership.Start = f.Membership.Start.AddDate(0, -1, 0)
		}, member.ErrEndNotDerived},
		{"locker end not derived", func(f *member.Form) {
			l := member.NewPeriod(period.OneMonth, today)
			l.End = l.End.AddDate(0, 0, 1)
			f.Locker = &member.Locker{Period: l}
		}, member.ErrEndNotDerived},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			err := f.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestForm_Toggle tests select/clear behaviour of resource types.
func TestForm_Toggle(t *testing.T) {
	t.Run("same type twice clears all fields", func(t *testing.T) {
		var f member.Form
		if err := f.Toggle(member.ResourceLocker, period.OneMonth, today); err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
		if f.Locker == nil || !f.Locker.Complete() {
			t.Fatalf("locker not set: %+v", f.Locker)
		}
		if f.Locker.Number != nil {
			t.Error("locker number must be left to the server")
		}
		if err := f.Toggle(member.ResourceLocker, period.OneMonth, today); err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
		if f.Locker != nil {
			t.Errorf("locker should be cleared, got %+v", f.Locker)
		}
	})

	t.Run("membership keeps existing start", func(t *testing.T) {
		f := validForm()
		start := f.Membership.Start.AddDate(0, -1, 0)
		if err := f.SetStart(member.ResourceMembership, start); err != nil {
			t.Fatalf("SetStart() error = %v", err)
		}
		if err := f.Toggle(member.ResourceMembership, period.PT(period.OneYear), today); err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
		if !f.Membership.Start.Equal(start) {
			t.Errorf("start = %v, want %v", f.Membership.Start, start)
		}
		if want := start.AddDate(1, 0, 0); !f.Membership.End.Equal(want) {
			t.Errorf("end = %v, want %v", f.Membership.End, want)
		}
	})

	t.Run("uniform starts today", func(t *testing.T) {
		var f member.Form
		if err := f.Toggle(member.ResourceUniform, period.SixMonths, today); err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
		if !f.Uniform.Start.Equal(period.Midnight(today)) {
			t.Errorf("start = %v", f.Uniform.Start)
		}
	})

	t.Run("pt not allowed for lockers", func(t *testing.T) {
		var f member.Form
		err := f.Toggle(member.ResourceLocker, period.PT(period.OneMonth), today)
		if !errors.Is(err, member.ErrUnknownPeriodLabel) {
			t.Errorf("Toggle() error = %v", err)
		}
	})

	t.Run("unknown label rejected", func(t *testing.T) {
		var f member.Form
		err := f.Toggle(member.ResourceMembership, period.Label("2주"), today)
		if !errors.Is(err, member.ErrUnknownPeriodLabel) {
			t.Errorf("Toggle() error = %v", err)
		}
	})
}

// TestForm_SetStart tests end-date recomputation.
func TestForm_SetStart(t *testing.T) {
	var f member.Form
	if err := f.SetStart(member.ResourceUniform, today); !errors.Is(err, member.ErrTypeNotSelected) {
		t.Errorf("SetStart() without type error = %v", err)
	}
	if err := f.Toggle(member.ResourceUniform, period.OneMonth, today); err != nil {
		t.Fatal(err)
	}
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	if err := f.SetStart(member.ResourceUniform, start); err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC); !f.Uniform.End.Equal(want) {
		t.Errorf("end = %v, want %v", f.Uniform.End, want)
	}
}

// TestFormFrom_Copies tests that editing a form never mutates the source member.
func TestFormFrom_Copies(t *testing.T) {
	n := 12
	p := member.NewPeriod(period.OneMonth, today)
	m := member.Member{
		ID:         7,
		Name:       "홍길동",
		Phone:      "01012345678",
		Membership: &p,
		Locker:     &member.Locker{Period: member.NewPeriod(period.OneMonth, today), Number: &n},
	}
	f := member.FormFrom(m)
	if f.Phone != "010-1234-5678" {
		t.Errorf("Phone = %q", f.Phone)
	}
	_ = f.Toggle(member.ResourceMembership, period.OneMonth, today)
	*f.Locker.Number = 99
	if m.Membership == nil || *m.Locker.Number != 12 {
		t.Error("source member was mutated")
	}
	if f.IsNew() {
		t.Error("form with ID should not be new")
	}
	if got := f.Normalized().Phone; got != "01012345678" {
		t.Errorf("Normalized().Phone = %q", got)
	}
}

// TestMember_Remaining tests optional sub-records.
func TestMember_Remaining(t *testing.T) {
	var m member.Member
	if !m.MembershipRemaining(today).Unbounded || !m.LockerRemaining(today).Unbounded || !m.UniformRemaining(today).Unbounded {
		t.Error("absent periods must be unbounded")
	}
	p := member.NewPeriod(period.OneMonth, today.AddDate(0, -2, 0))
	m.Membership = &p
	if !m.MembershipRemaining(today).Expired() {
		t.Error("expected expired membership")
	}
}
