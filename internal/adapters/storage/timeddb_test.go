package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymdesk/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openTestDB(t)
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// TestTimedDB_RecordsEveryStatement verifies each call lands in the collector.
func TestTimedDB_RecordsEveryStatement(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT id, val FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	rows.Close()
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil || val != "hello" {
		t.Fatalf("QueryRowContext = %q, %v", val, err)
	}

	if collector.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", collector.TotalRecorded())
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	seen := map[string]bool{}
	for _, p := range snap.SlowestQueries {
		seen[p.Path] = true
	}
	for _, op := range []string{"INSERT test", "SELECT test"} {
		if !seen[op] {
			t.Errorf("missing op %q in %+v", op, snap.SlowestQueries)
		}
	}
}

// TestTimedDB_NilCollector verifies the wrapper works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil, 10)
	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('a', 'b')"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if tdb.threshold != 10 {
		t.Errorf("threshold = %v, want 10", tdb.threshold)
	}
}

// TestTimedDB_Concurrent verifies concurrent writers are all recorded.
func TestTimedDB_Concurrent(t *testing.T) {
	collector := perf.NewCollector(1000)
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				tdb.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM test").Scan(new(int))
			}
		}()
	}
	wg.Wait()
	if collector.TotalRecorded() != 100 {
		t.Errorf("TotalRecorded = %d, want 100", collector.TotalRecorded())
	}
}

func TestOpLabel(t *testing.T) {
	tests := map[string]string{
		"INSERT INTO audit_event (id) VALUES (?)":     "INSERT audit_event",
		"select id from audit_event where id = ?":     "SELECT audit_event",
		"  UPDATE audit_event SET x = 1":              "UPDATE audit_event",
		"DELETE FROM audit_event WHERE timestamp < ?": "DELETE audit_event",
		"SELECT MAX(version) FROM schema_version":     "SELECT schema_version",
		"PRAGMA journal_mode=WAL":                     "PRAGMA",
	}
	for q, want := range tests {
		if got := opLabel(q); got != want {
			t.Errorf("opLabel(%q) = %q, want %q", q, got, want)
		}
	}
	if got := opLabel(""); got != "EMPTY" {
		t.Errorf("opLabel(\"\") = %q", got)
	}
}
