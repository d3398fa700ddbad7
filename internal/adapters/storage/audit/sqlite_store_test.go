package audit_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/adapters/storage/audit"
	domain "gymdesk/internal/domain/audit"
)

func newStore(t *testing.T) *audit.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return audit.NewSQLiteStore(storage.NewTimedDB(db, nil, 0))
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	e := domain.NewEvent(domain.CategoryMember, domain.ActionUpdate).
		WithMember(42).
		WithSession("ab12cd34").
		WithDescription("회원 정보 수정").
		WithRequest("10.0.0.5", "kiosk-test")

	if err := s.Save(ctx, e); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.MemberID != 42 || got.SessionRef != "ab12cd34" || got.Description != "회원 정보 수정" ||
		got.IPAddress != "10.0.0.5" || got.Severity != domain.SeverityInfo {
		t.Errorf("event = %+v", got)
	}
	if !got.Timestamp.Equal(e.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, e.Timestamp)
	}
}

func TestSQLiteStore_GetByID_Missing(t *testing.T) {
	s := newStore(t)
	if _, err := s.GetByID(context.Background(), "nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestSQLiteStore_List(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	events := []domain.Event{
		domain.NewEvent(domain.CategoryAuth, domain.ActionLogin),
		domain.NewEvent(domain.CategoryMember, domain.ActionDelete).WithMember(7),
		domain.NewEvent(domain.CategoryRecovery, domain.ActionPurge).WithMember(7),
		domain.NewEvent(domain.CategoryRecovery, domain.ActionRestoreAll),
	}
	for i := range events {
		events[i].Timestamp = base.Add(time.Duration(i) * time.Minute)
		if err := s.Save(ctx, events[i]); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter audit.Filter
		limit  int
		want   []domain.Action
	}{
		{"all newest first", audit.Filter{}, 10, []domain.Action{domain.ActionRestoreAll, domain.ActionPurge, domain.ActionDelete, domain.ActionLogin}},
		{"limit", audit.Filter{}, 2, []domain.Action{domain.ActionRestoreAll, domain.ActionPurge}},
		{"category", audit.Filter{Category: domain.CategoryRecovery}, 10, []domain.Action{domain.ActionRestoreAll, domain.ActionPurge}},
		{"member", audit.Filter{MemberID: 7}, 10, []domain.Action{domain.ActionPurge, domain.ActionDelete}},
		{"severity", audit.Filter{Severity: domain.SeverityCritical}, 10, []domain.Action{domain.ActionPurge}},
		{"since", audit.Filter{Since: base.Add(90 * time.Second)}, 10, []domain.Action{domain.ActionRestoreAll, domain.ActionPurge}},
		{"action", audit.Filter{Action: domain.ActionLogin}, 10, []domain.Action{domain.ActionLogin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.filter, tt.limit)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.want))
			}
			for i, a := range tt.want {
				if got[i].Action != a {
					t.Errorf("event[%d].Action = %q, want %q", i, got[i].Action, a)
				}
			}
		})
	}
}
