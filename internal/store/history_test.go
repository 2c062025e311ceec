package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistoryMissingFileReadsEmpty(t *testing.T) {
	h := NewJSONHistory(filepath.Join(t.TempDir(), "upload_history.json"))
	if got := h.Load(); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestHistoryCorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload_history.json")
	if err := os.WriteFile(path, []byte("][core dump"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := NewJSONHistory(path).Load(); len(got) != 0 {
		t.Fatalf("expected empty for corrupt file, got %v", got)
	}
}

func TestHistorySaveLoadKeepsStoredOrder(t *testing.T) {
	h := NewJSONHistory(filepath.Join(t.TempDir(), "upload_history.json"))
	// Deliberately not timestamp-sorted: the stored order is authoritative.
	in := []HistoryEntry{
		{Path: "cache_data/3_b.csv", OriginalName: "b.csv", Timestamp: 3},
		{Path: "cache_data/9_a.csv", OriginalName: "a.csv", Timestamp: 9},
	}
	if err := h.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out := h.Load()
	if len(out) != 2 || out[0].OriginalName != "b.csv" || out[1].OriginalName != "a.csv" {
		t.Fatalf("order not preserved: %+v", out)
	}
	if out[0].Timestamp != 3 {
		t.Fatalf("timestamp mangled: %+v", out[0])
	}
}

func TestSettingsRoundTripAndCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := NewJSONSettings(path)

	if got := s.Load(); got != (Settings{}) {
		t.Fatalf("expected empty settings, got %+v", got)
	}

	want := Settings{SheetName: "Fechamento", EmailShare: "fin@example.com"}
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := s.Load(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if err := os.WriteFile(path, []byte("??"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := s.Load(); got != (Settings{}) {
		t.Fatalf("corrupt settings should read empty, got %+v", got)
	}
}
