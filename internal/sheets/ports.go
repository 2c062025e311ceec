package sheets

import (
	"context"

	"contabil/internal/core"
	"contabil/internal/store"
)

// Ports for outbound adapters.
type (
	// TableExporter pushes a full table snapshot to an external spreadsheet.
	// It returns a reference the caller can show the user (URL or synthetic id).
	TableExporter interface {
		Export(ctx context.Context, t *core.Table, cfg store.Settings) (ref string, err error)
	}
)
