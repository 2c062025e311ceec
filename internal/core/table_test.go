package core

import "testing"

func sampleTable() *Table {
	t := NewTable([]string{ColDia, ColQuantidade, ColStatus, ColResponsavel})
	t.Append(map[string]string{ColDia: "2025-01-01", ColQuantidade: "5", ColStatus: "Pendente", ColResponsavel: "Ana"})
	t.Append(map[string]string{ColDia: "2025-01-02", ColQuantidade: "3", ColStatus: "Resolvido", ColResponsavel: "Bruno"})
	t.Append(map[string]string{ColDia: "2025-01-02", ColQuantidade: "7", ColStatus: "Pendente", ColResponsavel: "Ana"})
	return t
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	tab := sampleTable()
	ids := tab.IDs()
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestRemoveByIDPreservesOrder(t *testing.T) {
	tab := sampleTable()
	if !tab.RemoveByID(2) {
		t.Fatal("expected removal")
	}
	if tab.RemoveByID(99) {
		t.Fatal("unexpected removal of unknown id")
	}
	ids := tab.IDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("unexpected ids after removal: %v", ids)
	}
}

func TestAppendAfterRemoveDoesNotReuseIDs(t *testing.T) {
	tab := sampleTable()
	tab.RemoveByID(3)
	r := tab.Append(map[string]string{ColDia: "2025-01-03"})
	if r.ID != 4 {
		t.Fatalf("expected fresh id 4, got %d", r.ID)
	}
}

func TestClonePreservesIDsAndIsolatesFields(t *testing.T) {
	tab := sampleTable()
	c := tab.Clone()
	c.Rows[0].Fields[ColStatus] = "Cancelado"
	if tab.Rows[0].Fields[ColStatus] != "Pendente" {
		t.Fatal("clone mutated the source table")
	}
	if c.Rows[0].ID != tab.Rows[0].ID {
		t.Fatal("clone changed row identity")
	}
}

func TestDistinctValues(t *testing.T) {
	tab := sampleTable()
	got := tab.DistinctValues(ColResponsavel)
	if len(got) != 2 || got[0] != "Ana" || got[1] != "Bruno" {
		t.Fatalf("unexpected distinct values: %v", got)
	}
}

func TestEnsureColumn(t *testing.T) {
	tab := sampleTable()
	before := len(tab.Columns)
	tab.EnsureColumn(ColStatus)
	if len(tab.Columns) != before {
		t.Fatal("EnsureColumn duplicated an existing column")
	}
	tab.EnsureColumn("Obs")
	if !tab.HasColumn("Obs") {
		t.Fatal("EnsureColumn did not add the new column")
	}
}
