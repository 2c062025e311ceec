package reconcile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"contabil/internal/core"
	"contabil/internal/tabular"
)

const fixture = "Dia,Quantidade,Inconsistencias,Status,Responsavel\n" +
	"2025-01-01,10,Saldo,Pendente,Ana\n" +
	"2025-01-02,5,Nota,Pendente,Bruno\n" +
	"2025-01-03,7,Saldo,Resolvido,Ana\n" +
	"2025-01-04,2,Lançamento,Pendente,Carla\n"

func loadFixture(t *testing.T) *core.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dados.csv")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}
	tab, err := tabular.Load(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return tab
}

func reload(t *testing.T, path string) *core.Table {
	t.Helper()
	tab, err := tabular.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	return tab
}

func TestApplyZeroEditsRoundTrips(t *testing.T) {
	tab := loadFixture(t)
	before, _ := os.ReadFile(tab.Path)

	view := tab.Clone()
	if err := Apply(tab, view.IDs(), view.Rows); err != nil {
		t.Fatalf("apply: %v", err)
	}

	after, _ := os.ReadFile(tab.Path)
	if string(before) != string(after) {
		t.Fatalf("zero-edit apply changed bytes:\n%s", after)
	}
}

func TestApplyUpdatesWholeRow(t *testing.T) {
	tab := loadFixture(t)

	// The user edited a filtered view: only Ana's rows.
	view := core.Filter{Responsavel: []string{"Ana"}}.Apply(tab)
	view.Rows[0].Fields[core.ColStatus] = "Resolvido"
	view.Rows[0].Fields[core.ColQuantidade] = "99"

	if err := Apply(tab, view.IDs(), view.Rows); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got := reload(t, tab.Path)
	if len(got.Rows) != 4 {
		t.Fatalf("row count changed: %d", len(got.Rows))
	}
	r := got.Rows[0]
	if r.Fields[core.ColStatus] != "Resolvido" || r.Fields[core.ColQuantidade] != "99" {
		t.Fatalf("update not applied: %+v", r.Fields)
	}
	// Rows outside the view are untouched.
	if got.Rows[1].Fields[core.ColResponsavel] != "Bruno" || got.Rows[1].Fields[core.ColQuantidade] != "5" {
		t.Fatalf("row outside view changed: %+v", got.Rows[1].Fields)
	}
}

func TestApplyDeletesRowsRemovedFromView(t *testing.T) {
	tab := loadFixture(t)

	view := core.Filter{Responsavel: []string{"Ana"}}.Apply(tab)
	viewIDs := view.IDs() // rows 1 and 3
	// The user deleted the second Ana row from the grid.
	edited := view.Rows[:1]

	if err := Apply(tab, viewIDs, edited); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got := reload(t, tab.Path)
	if len(got.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got.Rows))
	}
	for _, r := range got.Rows {
		if r.Fields[core.ColDia] == "2025-01-03" {
			t.Fatalf("deleted row survived: %+v", r.Fields)
		}
	}
}

func TestApplyAppendsNewRows(t *testing.T) {
	tab := loadFixture(t)

	view := tab.Clone()
	edited := append(view.Rows, core.Row{Fields: map[string]string{
		core.ColDia:             "05/01/2025",
		core.ColQuantidade:      "3.0",
		core.ColInconsistencias: "Saldo",
		core.ColStatus:          "Pendente",
		core.ColResponsavel:     "Duda",
	}})

	if err := Apply(tab, view.IDs(), edited); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got := reload(t, tab.Path)
	if len(got.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(got.Rows))
	}
	last := got.Rows[4]
	if last.Fields[core.ColResponsavel] != "Duda" {
		t.Fatalf("new row not appended last: %+v", last.Fields)
	}
	// Edit-time representations are coerced back on the way in.
	if last.Fields[core.ColDia] != "2025-01-05" {
		t.Fatalf("Dia not canonicalized: %q", last.Fields[core.ColDia])
	}
	if last.Fields[core.ColQuantidade] != "3" {
		t.Fatalf("Quantidade not normalized: %q", last.Fields[core.ColQuantidade])
	}
}

func TestApplyKeepsNonNumericQuantidade(t *testing.T) {
	tab := loadFixture(t)
	view := tab.Clone()
	view.Rows[0].Fields[core.ColQuantidade] = "n/d"

	if err := Apply(tab, view.IDs(), view.Rows); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got := reload(t, tab.Path)
	if got.Rows[0].Fields[core.ColQuantidade] != "n/d" {
		t.Fatalf("non-numeric quantity mangled: %q", got.Rows[0].Fields[core.ColQuantidade])
	}
}

func TestApplyBulk(t *testing.T) {
	tab := loadFixture(t)
	ids := []int64{1, 3}

	err := ApplyBulk(tab, ids, map[string]string{
		core.ColStatus:      "Cancelado",
		core.ColResponsavel: "Equipe",
	})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}

	got := reload(t, tab.Path)
	for i, r := range got.Rows {
		selected := i == 0 || i == 2
		if selected {
			if r.Fields[core.ColStatus] != "Cancelado" || r.Fields[core.ColResponsavel] != "Equipe" {
				t.Fatalf("row %d missing bulk change: %+v", i, r.Fields)
			}
		} else {
			if r.Fields[core.ColStatus] == "Cancelado" {
				t.Fatalf("unselected row %d changed: %+v", i, r.Fields)
			}
		}
	}
}

func TestApplyBulkRequiresChanges(t *testing.T) {
	tab := loadFixture(t)
	if err := ApplyBulk(tab, []int64{1}, nil); err == nil {
		t.Fatal("expected error for empty change set")
	}
}

func TestAppendEntries(t *testing.T) {
	tab := loadFixture(t)
	entries := []core.Entry{
		{
			Dia:             time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			Quantidade:      "4",
			Inconsistencias: "Nota",
			Status:          "Pendente",
			Responsavel:     "Elisa",
		},
	}
	if err := AppendEntries(tab, entries); err != nil {
		t.Fatalf("append: %v", err)
	}
	got := reload(t, tab.Path)
	if len(got.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(got.Rows))
	}
	if got.Rows[4].Fields[core.ColResponsavel] != "Elisa" {
		t.Fatalf("entry not appended: %+v", got.Rows[4].Fields)
	}
}

func TestAppendEntriesValidatesBeforeWriting(t *testing.T) {
	tab := loadFixture(t)
	before, _ := os.ReadFile(tab.Path)

	entries := []core.Entry{{Quantidade: "toomany99", Responsavel: "X"}}
	if err := AppendEntries(tab, entries); err == nil {
		t.Fatal("expected validation error")
	}

	after, _ := os.ReadFile(tab.Path)
	if string(before) != string(after) {
		t.Fatal("invalid entry queue still reached the file")
	}
}

func TestApplyWriteFailureLeavesNoPartialFile(t *testing.T) {
	tab := loadFixture(t)
	tab.Path = filepath.Join(tab.Path, "not-a-dir", "x.csv")

	view := tab.Clone()
	if err := Apply(tab, view.IDs(), view.Rows); err == nil {
		t.Fatal("expected write error")
	}
}
