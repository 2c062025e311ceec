package storage

import (
	"path/filepath"
	"testing"

	"contabil/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "contabil.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHistoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	h := db.History()

	if got := h.Load(); len(got) != 0 {
		t.Fatalf("fresh database history = %v, want empty", got)
	}

	entries := []store.HistoryEntry{
		{Path: "cache/300_c.xlsx", OriginalName: "c.xlsx", Timestamp: 300},
		{Path: "cache/200_b.csv", OriginalName: "b.csv", Timestamp: 200},
		{Path: "cache/100_a.csv", OriginalName: "a.csv", Timestamp: 100},
	}
	if err := h.Save(entries); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := h.Load()
	if len(got) != len(entries) {
		t.Fatalf("Load() returned %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}

	// Save replaces the whole ledger, never appends.
	if err := h.Save(entries[:1]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := h.Load(); len(got) != 1 || got[0] != entries[0] {
		t.Errorf("after truncating save, Load() = %v", got)
	}
}

func TestOptionsDefaults(t *testing.T) {
	db := openTestDB(t)
	o := db.Options()

	opts := o.Load()
	if len(opts.Status) == 0 {
		t.Error("fresh database should expose default status values")
	}
	if opts.Responsavel == nil || opts.Inconsistencias == nil {
		t.Error("empty categories should load as empty slices, not nil")
	}
}

func TestOptionsAddRemove(t *testing.T) {
	db := openTestDB(t)
	o := db.Options()

	if err := o.Add(store.CategoryResponsavel, "Maria"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := o.Add(store.CategoryResponsavel, "Maria"); err != nil {
		t.Fatalf("repeated Add() error = %v", err)
	}
	if err := o.Add(store.CategoryResponsavel, "Ana"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got := o.Load().Responsavel
	want := []string{"Ana", "Maria"}
	if len(got) != len(want) {
		t.Fatalf("Responsavel = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Responsavel[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if err := o.Remove(store.CategoryResponsavel, "Maria"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	got = o.Load().Responsavel
	if len(got) != 1 || got[0] != "Ana" {
		t.Errorf("after Remove, Responsavel = %v", got)
	}
}

func TestOptionsAddValidation(t *testing.T) {
	db := openTestDB(t)
	o := db.Options()

	if err := o.Add(store.CategoryStatus, ""); err == nil {
		t.Error("Add with empty value should fail")
	}
	if err := o.Add("cores", "Azul"); err == nil {
		t.Error("Add with unknown category should fail")
	}
}

func TestSettingsUpsert(t *testing.T) {
	db := openTestDB(t)
	s := db.Settings()

	if got := s.Load(); got != (store.Settings{}) {
		t.Fatalf("fresh settings = %+v, want zero", got)
	}

	first := store.Settings{SheetName: "Relatorio", EmailShare: "chefe@empresa.com"}
	if err := s.Save(first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := s.Load(); got != first {
		t.Errorf("Load() = %+v, want %+v", got, first)
	}

	second := store.Settings{SheetName: "Relatorio 2026", EmailShare: "chefe@empresa.com"}
	if err := s.Save(second); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if got := s.Load(); got != second {
		t.Errorf("after overwrite, Load() = %+v, want %+v", got, second)
	}
}

func TestRepositoriesSatisfyPorts(t *testing.T) {
	db := openTestDB(t)
	var _ store.HistoryRepository = db.History()
	var _ store.OptionsRepository = db.Options()
	var _ store.SettingsRepository = db.Settings()
}
