package outbox_test

import (
	"errors"
	"testing"
	"time"

	"gymdesk/internal/domain/outbox"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewEntry(t *testing.T) {
	e := outbox.NewEntry(outbox.KindStaffNotice, `{"subject":"x"}`, t0)
	if e.ID == "" || e.Status != outbox.StatusPending || e.MaxAttempts != outbox.DefaultMaxAttempts {
		t.Errorf("entry = %+v", e)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name string
		e    outbox.Entry
		want error
	}{
		{"no kind", outbox.NewEntry("", "{}", t0), outbox.ErrEmptyKind},
		{"no payload", outbox.NewEntry(outbox.KindStaffNotice, "", t0), outbox.ErrEmptyPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.e.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEntry_Lifecycle(t *testing.T) {
	e := outbox.NewEntry(outbox.KindStaffNotice, "{}", t0)
	e.MaxAttempts = 2

	e.MarkAttempt(t0)
	e.MarkFailed(errors.New("smtp down"))
	if e.Status != outbox.StatusRetrying || !e.CanRetry() || e.LastError != "smtp down" {
		t.Fatalf("after first failure: %+v", e)
	}

	e.MarkAttempt(t0.Add(time.Minute))
	e.MarkFailed(errors.New("smtp down"))
	if e.Status != outbox.StatusFailed || e.CanRetry() {
		t.Fatalf("after last failure: %+v", e)
	}
}

func TestEntry_MarkSuccess(t *testing.T) {
	e := outbox.NewEntry(outbox.KindStaffNotice, "{}", t0)
	e.MarkAttempt(t0)
	e.MarkFailed(errors.New("boom"))
	e.MarkSuccess("msg-1")
	if e.Status != outbox.StatusDone || e.ExternalID != "msg-1" || e.LastError != "" || e.CanRetry() {
		t.Errorf("entry = %+v", e)
	}
}

func TestEntry_Backoff(t *testing.T) {
	base, max := time.Minute, 10*time.Minute
	e := outbox.NewEntry(outbox.KindStaffNotice, "{}", t0)
	if !e.Due(t0, base, max) {
		t.Error("a fresh entry is due immediately")
	}

	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{1, 2 * time.Minute},
		{2, 4 * time.Minute},
		{3, 8 * time.Minute},
		{4, 10 * time.Minute},
		{40, 10 * time.Minute},
	}
	for _, tt := range tests {
		e.Attempts = tt.attempts
		if got := e.NextRetryDelay(base, max); got != tt.want {
			t.Errorf("attempts %d: delay = %v, want %v", tt.attempts, got, tt.want)
		}
	}

	e.Attempts = 0
	e.MarkAttempt(t0)
	if e.Due(t0.Add(time.Minute), base, max) {
		t.Error("due before backoff elapsed")
	}
	if !e.Due(t0.Add(2*time.Minute), base, max) {
		t.Error("not due after backoff elapsed")
	}
}
