package period_test

import (
	"testing"
	"time"

	"gymdesk/internal/domain/period"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestComputeEndDate covers every label plus PT unwrapping and month overflow.
func TestComputeEndDate(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		label period.Label
		want  time.Time
	}{
		{"one month", date(2025, 1, 15), period.OneMonth, date(2025, 2, 15)},
		{"three months", date(2025, 1, 15), period.ThreeMonths, date(2025, 4, 15)},
		{"six months", date(2025, 1, 15), period.SixMonths, date(2025, 7, 15)},
		{"one year", date(2025, 1, 15), period.OneYear, date(2026, 1, 15)},
		{"pt unwraps", date(2025, 1, 15), period.PT(period.ThreeMonths), date(2025, 4, 15)},
		{"pt one year", date(2024, 2, 29), period.PT(period.OneYear), date(2025, 3, 1)},
		{"month overflow normalises", date(2025, 1, 31), period.OneMonth, date(2025, 3, 3)},
		{"unknown label unchanged", date(2025, 1, 15), period.Label("2주"), date(2025, 1, 15)},
		{"empty label unchanged", date(2025, 1, 15), period.Label(""), date(2025, 1, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := period.ComputeEndDate(tt.start, tt.label)
			if !got.Equal(tt.want) {
				t.Errorf("ComputeEndDate(%s, %q) = %s, want %s", tt.start.Format("2006-01-02"), tt.label, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

// TestLabel_PT tests PT wrapping and unwrapping.
func TestLabel_PT(t *testing.T) {
	pt := period.PT(period.SixMonths)
	if pt != "PT(6개월)" {
		t.Fatalf("PT() = %q", pt)
	}
	if !pt.IsPT() {
		t.Error("expected IsPT for wrapped label")
	}
	if pt.Base() != period.SixMonths {
		t.Errorf("Base() = %q, want %q", pt.Base(), period.SixMonths)
	}
	if period.OneMonth.IsPT() {
		t.Error("plain label should not be PT")
	}
	if !pt.Known() || period.Label("PT(2주)").Known() {
		t.Error("Known() mismatch")
	}
	if got := len(period.MembershipLabels()); got != 8 {
		t.Errorf("MembershipLabels() has %d labels, want 8", got)
	}
}

// TestDaysRemaining tests ceiling semantics around midnight.
func TestDaysRemaining(t *testing.T) {
	end := date(2025, 3, 10)
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"on end date morning", time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), 0},
		{"on end date late", time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC), 0},
		{"day before late evening", time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC), 1},
		{"ten days before", date(2025, 2, 28), 10},
		{"day after", time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := period.DaysRemaining(&end, tt.now)
			if got.Unbounded || got.Days != tt.want {
				t.Errorf("DaysRemaining() = %+v, want %d", got, tt.want)
			}
		})
	}

	t.Run("nil end is unbounded", func(t *testing.T) {
		got := period.DaysRemaining(nil, time.Now())
		if !got.Unbounded {
			t.Error("expected Unbounded")
		}
		if got.Expired() {
			t.Error("unbounded period must never be expired")
		}
	})
}

// TestExpiry tests display classification.
func TestExpiry(t *testing.T) {
	tests := []struct {
		rem  period.Remaining
		want period.ExpiryState
	}{
		{period.Remaining{Unbounded: true}, period.ExpiryNone},
		{period.Remaining{Days: -1}, period.ExpiryExpired},
		{period.Remaining{Days: 0}, period.ExpirySoon},
		{period.Remaining{Days: 7}, period.ExpirySoon},
		{period.Remaining{Days: 8}, period.ExpiryOK},
	}
	for _, tt := range tests {
		if got := period.Expiry(tt.rem); got != tt.want {
			t.Errorf("Expiry(%+v) = %s, want %s", tt.rem, got, tt.want)
		}
	}
}

// TestParseDate tests date parsing into a location.
func TestParseDate(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	got, err := period.ParseDate(" 2025-05-01 ", loc)
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if got.Location() != loc || got.Day() != 1 || got.Hour() != 0 {
		t.Errorf("ParseDate() = %v", got)
	}
	if _, err := period.ParseDate("05/01/2025", loc); err == nil {
		t.Error("expected error for wrong layout")
	}
	if period.FormatDate(time.Time{}) != "" {
		t.Error("zero date should format empty")
	}
}
