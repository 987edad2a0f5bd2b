package logstore

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T, path string, window time.Duration) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(SQLiteConfig{
		Path:     path,
		Capacity: 16,
		Window:   window,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

func TestSQLiteStore_RequiresPathAndWindow(t *testing.T) {
	if _, err := NewSQLiteStore(SQLiteConfig{Window: time.Minute}); err == nil {
		t.Error("Expected error for empty path")
	}
	if _, err := NewSQLiteStore(SQLiteConfig{Path: "x.db"}); err == nil {
		t.Error("Expected error for zero window")
	}
}

func TestSQLiteStore_RecordAndCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permits.db")
	store := newTestSQLiteStore(t, path, time.Hour)
	defer store.Close()

	now := time.Now()
	store.Record(now, 3)
	store.Record(now.Add(time.Second), 2)

	if count := store.CountSince(now.Add(-time.Minute)); count != 5 {
		t.Errorf("Expected weight 5, got %d", count)
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 ring entries, got %d", store.Len())
	}
}

func TestSQLiteStore_WarmRestartReplaysHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permits.db")

	now := time.Now()

	store := newTestSQLiteStore(t, path, time.Hour)
	store.Record(now.Add(-2*time.Hour), 5) // stale, must not be replayed
	store.Record(now.Add(-time.Minute), 2)
	store.Record(now, 3)
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := newTestSQLiteStore(t, path, time.Hour)
	defer reopened.Close()

	if count := reopened.CountSince(now.Add(-time.Hour)); count != 5 {
		t.Errorf("Expected in-window weight 5 after restart, got %d", count)
	}
	if reopened.Len() != 2 {
		t.Errorf("Expected stale entry pruned on replay, got %d entries", reopened.Len())
	}
}

func TestSQLiteStore_EvictBeforePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permits.db")

	now := time.Now()

	store := newTestSQLiteStore(t, path, time.Hour)
	store.Record(now.Add(-30*time.Minute), 4)
	store.Record(now, 1)
	store.EvictBefore(now.Add(-time.Minute))
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := newTestSQLiteStore(t, path, time.Hour)
	defer reopened.Close()

	if reopened.Len() != 1 {
		t.Errorf("Expected evicted entry gone after restart, got %d entries", reopened.Len())
	}
	if count := reopened.CountSince(now.Add(-time.Hour)); count != 1 {
		t.Errorf("Expected only the surviving entry, got weight %d", count)
	}
}

func TestSQLiteStore_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permits.db")
	store := newTestSQLiteStore(t, path, time.Hour)

	if err := store.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}

func TestSQLiteStore_QueueOverflowKeepsRingAuthoritative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permits.db")

	store, err := NewSQLiteStore(SQLiteConfig{
		Path:      path,
		Capacity:  64,
		Window:    time.Hour,
		QueueSize: 1,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	now := time.Now()
	for i := 0; i < 32; i++ {
		store.Record(now.Add(time.Duration(i)*time.Millisecond), 1)
	}

	// Ring state never depends on journal throughput.
	if count := store.CountSince(now.Add(-time.Minute)); count != 32 {
		t.Errorf("Expected all 32 permits counted, got %d", count)
	}
}
