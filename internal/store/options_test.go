package store

import (
	"os"
	"path/filepath"
	"testing"

	"contabil/internal/core"
)

func newTestOptions(t *testing.T) *JSONOptions {
	t.Helper()
	return NewJSONOptions(filepath.Join(t.TempDir(), "options.json"))
}

func TestOptionsDefaults(t *testing.T) {
	s := newTestOptions(t)
	o := s.Load()
	if len(o.Status) != 4 || o.Status[0] != "Pendente" {
		t.Fatalf("missing built-in status defaults: %v", o.Status)
	}
	if o.Responsavel == nil || o.Inconsistencias == nil {
		t.Fatal("open-ended categories must load as empty, not nil")
	}
}

func TestOptionsCorruptFileDegradesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	o := NewJSONOptions(path).Load()
	if len(o.Status) != 4 {
		t.Fatalf("corrupt file should read as defaults, got %v", o.Status)
	}
}

func TestOptionsAddIdempotentAndSorted(t *testing.T) {
	s := newTestOptions(t)
	for _, v := range []string{"Carla", "Ana", "Carla"} {
		if err := s.Add(CategoryResponsavel, v); err != nil {
			t.Fatalf("add %s: %v", v, err)
		}
	}
	got := s.Load().Responsavel
	if len(got) != 2 || got[0] != "Ana" || got[1] != "Carla" {
		t.Fatalf("responsavel = %v", got)
	}
}

func TestOptionsAddRejectsUnknownCategory(t *testing.T) {
	s := newTestOptions(t)
	if err := s.Add("cores", "azul"); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if err := s.Add(CategoryStatus, ""); err == nil {
		t.Fatal("expected error for empty value")
	}
}

func TestOptionsRemove(t *testing.T) {
	s := newTestOptions(t)
	if err := s.Add(CategoryInconsistencias, "Saldo"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(CategoryInconsistencias, "Saldo"); err != nil {
		t.Fatal(err)
	}
	if got := s.Load().Inconsistencias; len(got) != 0 {
		t.Fatalf("expected empty after remove, got %v", got)
	}
	// Removing something absent is a quiet no-op.
	if err := s.Remove(CategoryInconsistencias, "Saldo"); err != nil {
		t.Fatal(err)
	}
}

func TestEffectiveOptionsUnion(t *testing.T) {
	tab := core.NewTable(core.RequiredColumns)
	tab.Append(map[string]string{core.ColResponsavel: "Zeca", core.ColInconsistencias: "Saldo"})
	tab.Append(map[string]string{core.ColResponsavel: "Ana", core.ColInconsistencias: "Saldo"})

	o := Options{
		Responsavel:     []string{"Ana", "Bruno"},
		Inconsistencias: []string{"Nota"},
		Status:          DefaultStatus(),
	}
	eff := Effective(o, tab)

	wantResp := []string{"Ana", "Bruno", "Outro", "Zeca"}
	if len(eff.Responsavel) != len(wantResp) {
		t.Fatalf("responsavel = %v", eff.Responsavel)
	}
	for i := range wantResp {
		if eff.Responsavel[i] != wantResp[i] {
			t.Fatalf("responsavel = %v, want %v", eff.Responsavel, wantResp)
		}
	}

	wantInc := []string{"Nota", "Outro", "Saldo"}
	for i := range wantInc {
		if eff.Inconsistencias[i] != wantInc[i] {
			t.Fatalf("inconsistencias = %v, want %v", eff.Inconsistencias, wantInc)
		}
	}

	// Status never gains the sentinel nor in-data values.
	for _, v := range eff.Status {
		if v == OptionOutro {
			t.Fatal("status must not contain the Outro sentinel")
		}
	}
}
