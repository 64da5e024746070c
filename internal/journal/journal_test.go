package journal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupTestJournal opens a journal in a temporary directory.
func setupTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

// TestOpen tests database creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "a", "b")
		j, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open journal: %v", err)
		}
		defer j.Close()

		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if j.Path() != filepath.Join(dir, FileName) {
			t.Errorf("unexpected path %q", j.Path())
		}
	})

	t.Run("missing database without create", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		j, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := j.Record(context.Background(), &Entry{RequestID: "r1", Method: "GET", Path: "/_health", Status: 200}); err != nil {
			t.Fatal(err)
		}
		_ = j.Close()

		j2, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer j2.Close()

		entries, err := j2.Recent(context.Background(), 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected 1 entry after reopen, got %d", len(entries))
		}
	})
}

// TestRecordAndRecent tests insertion and newest-first listing.
func TestRecordAndRecent(t *testing.T) {
	t.Parallel()

	j := setupTestJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, path := range []string{"/scan", "/history?json=1", "/toggle_theme"} {
		_, err := j.Record(ctx, &Entry{
			RequestID: "req-" + path,
			Method:    "POST",
			Path:      path,
			Status:    200,
			Latency:   time.Duration(i+1) * 10 * time.Millisecond,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "/toggle_theme" || entries[1].Path != "/history?json=1" {
		t.Errorf("unexpected order: %q, %q", entries[0].Path, entries[1].Path)
	}
	if entries[0].Latency != 30*time.Millisecond {
		t.Errorf("unexpected latency %v", entries[0].Latency)
	}
	if !entries[0].Timestamp.Equal(base.Add(2 * time.Second)) {
		t.Errorf("unexpected timestamp %v", entries[0].Timestamp)
	}

	if none, err := j.Recent(ctx, 0); err != nil || none != nil {
		t.Errorf("expected nil for zero limit, got %v %v", none, err)
	}
}

// TestStats tests per-path aggregation.
func TestStats(t *testing.T) {
	t.Parallel()

	j := setupTestJournal(t)
	ctx := context.Background()

	records := []Entry{
		{RequestID: "1", Method: "POST", Path: "/scan", Status: 200, Latency: 100 * time.Millisecond},
		{RequestID: "2", Method: "POST", Path: "/scan", Status: 500, Latency: 300 * time.Millisecond},
		{RequestID: "3", Method: "POST", Path: "/scan", Error: "connection refused"},
		{RequestID: "4", Method: "GET", Path: "/get_theme", Status: 200, Latency: 20 * time.Millisecond},
	}
	for i := range records {
		if _, err := j.Record(ctx, &records[i]); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := j.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(stats))
	}
	if stats[0].Path != "/get_theme" || stats[0].Requests != 1 || stats[0].Failures != 0 {
		t.Errorf("unexpected get_theme stat %+v", stats[0])
	}
	if stats[1].Path != "/scan" || stats[1].Requests != 3 || stats[1].Failures != 2 {
		t.Errorf("unexpected scan stat %+v", stats[1])
	}
	if stats[1].AvgLatency != 400*time.Millisecond/3 {
		t.Errorf("unexpected average latency %v", stats[1].AvgLatency)
	}
}

// TestPrune tests age-based deletion.
func TestPrune(t *testing.T) {
	t.Parallel()

	j := setupTestJournal(t)
	ctx := context.Background()

	old := &Entry{RequestID: "old", Method: "GET", Path: "/", Status: 200, Timestamp: time.Now().Add(-48 * time.Hour)}
	fresh := &Entry{RequestID: "fresh", Method: "GET", Path: "/", Status: 200}
	for _, e := range []*Entry{old, fresh} {
		if _, err := j.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	n, err := j.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned, got %d", n)
	}

	entries, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].RequestID != "fresh" {
		t.Errorf("unexpected remaining entries %+v", entries)
	}
}

// TestEntryFailed tests failure classification.
func TestEntryFailed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"ok", Entry{Status: 200}, false},
		{"no content", Entry{Status: 204}, false},
		{"redirect", Entry{Status: 302}, true},
		{"server error", Entry{Status: 500}, true},
		{"transport error", Entry{Error: "timeout"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.entry.Failed(); got != tt.want {
				t.Errorf("Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestParseTimestamp tests supported formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	for _, s := range []string{"2026-05-06 07:08:09", "2026-05-06T07:08:09Z", "2026-05-06T07:08:09.000000000Z"} {
		if got := parseTimestamp(s); !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v", s, got)
		}
	}
	if !parseTimestamp("garbage").IsZero() {
		t.Error("expected zero time for garbage")
	}
}
