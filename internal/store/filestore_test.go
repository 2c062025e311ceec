package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileStore(t *testing.T) (*FileStore, *JSONHistory, string) {
	t.Helper()
	dir := t.TempDir()
	hist := NewJSONHistory(filepath.Join(dir, "upload_history.json"))
	fs := NewFileStore(filepath.Join(dir, "cache_data"), hist)

	// Deterministic, strictly increasing clock so file names never collide.
	var tick int64
	fs.now = func() time.Time {
		tick++
		return time.Unix(1700000000+tick, 0)
	}
	return fs, hist, dir
}

func TestPersistRegistersNewestFirst(t *testing.T) {
	fs, hist, _ := newTestFileStore(t)

	for _, name := range []string{"a.csv", "b.csv"} {
		if _, err := fs.Persist(name, []byte("Dia\n")); err != nil {
			t.Fatalf("persist %s: %v", name, err)
		}
	}

	entries := hist.Load()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].OriginalName != "b.csv" || entries[1].OriginalName != "a.csv" {
		t.Fatalf("unexpected order: %+v", entries)
	}
	if _, err := os.Stat(entries[0].Path); err != nil {
		t.Fatalf("cached file missing: %v", err)
	}
}

func TestPersistEvictsOldestAndDeletesItsFile(t *testing.T) {
	fs, hist, _ := newTestFileStore(t)

	var paths []string
	for _, name := range []string{"c.csv", "b.csv", "a.csv"} {
		p, err := fs.Persist(name, []byte("x"))
		if err != nil {
			t.Fatalf("persist: %v", err)
		}
		paths = append(paths, p)
	}

	if _, err := fs.Persist("d.csv", []byte("x")); err != nil {
		t.Fatalf("persist d: %v", err)
	}

	entries := hist.Load()
	if len(entries) != MaxHistory {
		t.Fatalf("expected %d entries, got %d", MaxHistory, len(entries))
	}
	got := []string{entries[0].OriginalName, entries[1].OriginalName, entries[2].OriginalName}
	want := []string{"d.csv", "a.csv", "b.csv"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ledger = %v, want %v", got, want)
		}
	}
	// The evicted entry's backing file (oldest, c.csv) must be gone.
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Fatalf("evicted file still present: %v", err)
	}
}

func TestPersistDedupByNameKeepsOldFileOnDisk(t *testing.T) {
	fs, hist, _ := newTestFileStore(t)

	first, err := fs.Persist("a.csv", []byte("v1"))
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	second, err := fs.Persist("a.csv", []byte("v2"))
	if err != nil {
		t.Fatalf("persist: %v", err)
	}

	entries := hist.Load()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after dedup, got %d", len(entries))
	}
	if entries[0].Path != second {
		t.Fatalf("ledger points at %s, want %s", entries[0].Path, second)
	}
	// Dedup drops the ledger entry but never deletes the superseded file.
	if _, err := os.Stat(first); err != nil {
		t.Fatalf("superseded file was deleted: %v", err)
	}
}

func TestPersistLedgerLengthProperty(t *testing.T) {
	fs, hist, _ := newTestFileStore(t)

	names := []string{"a.csv", "b.csv", "a.csv", "c.csv", "d.csv", "e.csv"}
	for _, name := range names {
		before := hist.Load()
		dedup := 0
		for _, e := range before {
			if e.OriginalName == name {
				dedup++
			}
		}
		if _, err := fs.Persist(name, []byte("x")); err != nil {
			t.Fatalf("persist %s: %v", name, err)
		}
		after := hist.Load()
		want := len(before) - dedup + 1
		if want > MaxHistory {
			want = MaxHistory
		}
		if len(after) != want {
			t.Fatalf("after %s: len=%d, want %d", name, len(after), want)
		}
		if after[0].OriginalName != name {
			t.Fatalf("newest upload not at index 0: %+v", after)
		}
	}
}

func TestOpenReportsStaleEntries(t *testing.T) {
	fs, _, _ := newTestFileStore(t)

	p, err := fs.Persist("a.csv", []byte("x"))
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if _, err := fs.Open(p); err != nil {
		t.Fatalf("open: %v", err)
	}
	os.Remove(p)
	if _, err := fs.Open(p); err != ErrNotCached {
		t.Fatalf("expected ErrNotCached, got %v", err)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("cache_data/1700000001_balanco.xlsx"); got != "balanco.xlsx" {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := DisplayName("plain.csv"); got != "plain.csv" {
		t.Fatalf("DisplayName = %q", got)
	}
}
