package checkin_test

import (
	"testing"
	"time"

	"gymdesk/internal/domain/checkin"
)

// TestRecord_Duration tests visit duration derivation.
func TestRecord_Duration(t *testing.T) {
	in := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	out := in.Add(95 * time.Minute)
	mins := 30
	now := in.Add(2 * time.Hour)

	tests := []struct {
		name     string
		rec      checkin.Record
		want     time.Duration
		wantOpen bool
	}{
		{"closed", checkin.Record{CheckInAt: in, CheckOutAt: &out}, 95 * time.Minute, false},
		{"open counts to now", checkin.Record{CheckInAt: in}, 2 * time.Hour, true},
		{"backend duration wins", checkin.Record{CheckInAt: in, CheckOutAt: &out, DurationMinutes: &mins}, 30 * time.Minute, false},
		{"clock skew clamps", checkin.Record{CheckInAt: now.Add(time.Hour)}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Duration(now); got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
			if got := tt.rec.IsOpen(); got != tt.wantOpen {
				t.Errorf("IsOpen() = %v, want %v", got, tt.wantOpen)
			}
		})
	}
}

// TestFormatDuration tests Korean duration rendering.
func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Minute, "45분"},
		{60 * time.Minute, "1시간"},
		{125 * time.Minute, "2시간 5분"},
		{0, "0분"},
	}
	for _, tt := range tests {
		if got := checkin.FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
