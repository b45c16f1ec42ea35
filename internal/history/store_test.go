package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, status := range []string{StatusCompleted, StatusFailed, StatusCompleted} {
		_, err := store.Record(ctx, Entry{
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Verb:      "convert",
			Summary:   "convert clip.mp4 to gif",
			Input:     "clip.mp4",
			Output:    "clip.gif",
			Status:    status,
			Duration:  3 * time.Second,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if !entries[0].StartedAt.After(entries[1].StartedAt) {
		t.Fatalf("entries not newest first: %v then %v", entries[0].StartedAt, entries[1].StartedAt)
	}
	if entries[0].Duration != 3*time.Second {
		t.Fatalf("duration = %v", entries[0].Duration)
	}
	if entries[0].Verb != "convert" || entries[0].Output != "clip.gif" {
		t.Fatalf("entry = %+v", entries[0])
	}
}

func TestPrune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for _, started := range []time.Time{old, recent} {
		if _, err := store.Record(ctx, Entry{StartedAt: started, Verb: "mute", Status: StatusCompleted}); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := store.Prune(ctx, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !entries[0].StartedAt.Equal(recent) {
		t.Fatalf("entries = %+v", entries)
	}
}
