// Package worker runs the asynchronous export path: it consumes export
// requests from the queue, loads the cached table and pushes it to the
// configured spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"contabil/internal/amqp"
	"contabil/internal/sheets"
	"contabil/internal/store"
	"contabil/internal/tabular"
)

// ExportWorker handles one export request at a time. Settings captured in
// the message win; the repository fills anything the message left blank.
type ExportWorker struct {
	exporter sheets.TableExporter
	settings store.SettingsRepository
}

func NewExportWorker(exporter sheets.TableExporter, settings store.SettingsRepository) *ExportWorker {
	return &ExportWorker{
		exporter: exporter,
		settings: settings,
	}
}

// HandleExportMessage processes a single export request from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TableExportMessage) error {
	cfg := store.Settings{SheetName: msg.SheetName, EmailShare: msg.EmailShare}
	if cfg.SheetName == "" && w.settings != nil {
		cfg = w.settings.Load()
	}

	table, err := tabular.Load(msg.Path)
	if err != nil {
		return fmt.Errorf("load cached table: %w", err)
	}

	ref, err := w.exporter.Export(ctx, table, cfg)
	if err != nil {
		return fmt.Errorf("export table: %w", err)
	}

	slog.InfoContext(ctx, "Export completed",
		"path", msg.Path,
		"sheet_name", cfg.SheetName,
		"row_count", len(table.Rows),
		"ref", ref)

	return nil
}
