package worker

import (
	"context"
	"path/filepath"
	"testing"

	"contabil/internal/amqp"
	"contabil/internal/core"
	"contabil/internal/sheets/memory"
	"contabil/internal/store"
	"contabil/internal/tabular"
)

func writeCachedTable(t *testing.T) string {
	t.Helper()
	tbl := core.NewTable(core.RequiredColumns)
	tbl.Append(map[string]string{
		core.ColDia:             "2026-02-10",
		core.ColQuantidade:      "2",
		core.ColInconsistencias: "Duplicado",
		core.ColStatus:          "Pendente",
		core.ColResponsavel:     "Ana",
	})
	path := filepath.Join(t.TempDir(), "100_vendas.csv")
	if err := tabular.Write(tbl, path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return path
}

func TestHandleExportMessage(t *testing.T) {
	exporter := memory.New()
	w := NewExportWorker(exporter, nil)

	path := writeCachedTable(t)
	msg := &amqp.TableExportMessage{Path: path, SheetName: "Relatorio", EmailShare: "chefe@empresa.com"}

	if err := w.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleExportMessage() error = %v", err)
	}

	rows := exporter.Snapshot("Relatorio")
	if len(rows) != 2 {
		t.Fatalf("exported %d rows, want 2 (header + data)", len(rows))
	}
	if rows[1][4] != "Ana" {
		t.Errorf("exported Responsavel = %q, want %q", rows[1][4], "Ana")
	}
}

func TestHandleExportMessageFallsBackToSettings(t *testing.T) {
	dir := t.TempDir()
	settings := store.NewJSONSettings(filepath.Join(dir, "settings.json"))
	if err := settings.Save(store.Settings{SheetName: "Padrao"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	exporter := memory.New()
	w := NewExportWorker(exporter, settings)

	msg := &amqp.TableExportMessage{Path: writeCachedTable(t)}
	if err := w.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleExportMessage() error = %v", err)
	}
	if rows := exporter.Snapshot("Padrao"); len(rows) != 2 {
		t.Errorf("fallback sheet has %d rows, want 2", len(rows))
	}
}

func TestHandleExportMessageMissingFile(t *testing.T) {
	w := NewExportWorker(memory.New(), nil)
	msg := &amqp.TableExportMessage{Path: filepath.Join(t.TempDir(), "gone.csv"), SheetName: "X"}

	if err := w.HandleExportMessage(context.Background(), msg); err == nil {
		t.Error("HandleExportMessage() with missing file should fail")
	}
}
