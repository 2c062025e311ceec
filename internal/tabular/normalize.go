package tabular

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"contabil/internal/core"
)

// headerRenames maps known accented or alternate header spellings to the
// canonical ASCII schema names. Unknown headers pass through unchanged.
var headerRenames = map[string]string{
	"Responsável":     core.ColResponsavel,
	"Inconsistências": core.ColInconsistencias,
	"Situação":        core.ColStatus,
	"Estado":          core.ColStatus,
}

func normalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if canonical, ok := headerRenames[h]; ok {
			h = canonical
		}
		out[i] = h
	}
	return out
}

// dateLayouts are the cell formats accepted for the Dia column, tried in
// order. Excel serial numbers are handled separately.
var dateLayouts = []string{
	core.DateLayout,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDia parses a Dia cell. Returns the zero time when the cell cannot be
// interpreted as a date.
func parseDia(cell string) time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, cell); err == nil {
			return d
		}
	}
	// Excel date serial, as produced by XLSX exports with date-typed cells.
	if serial, err := strconv.ParseFloat(cell, 64); err == nil && serial > 0 && serial < 300000 {
		if d, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return d
		}
	}
	return time.Time{}
}

// coerceDia rewrites every Dia cell to the canonical layout. Unparseable
// cells become empty, the null marker; required-field enforcement is the
// caller's concern.
func coerceDia(t *core.Table) {
	if !t.HasColumn(core.ColDia) {
		return
	}
	for i := range t.Rows {
		cell := t.Rows[i].Fields[core.ColDia]
		if d := parseDia(cell); !d.IsZero() {
			t.Rows[i].Fields[core.ColDia] = d.Format(core.DateLayout)
		} else {
			t.Rows[i].Fields[core.ColDia] = ""
		}
	}
}

// CanonicalDia rewrites one Dia value to the canonical layout, or to the
// empty null marker when it cannot be parsed as a date.
func CanonicalDia(cell string) string {
	if d := parseDia(cell); !d.IsZero() {
		return d.Format(core.DateLayout)
	}
	return ""
}

// NormalizeQuantidade trims a Quantidade cell and keeps it verbatim when it
// is not numeric; write-back never errors on a malformed quantity.
func NormalizeQuantidade(cell string) string {
	trimmed := strings.TrimSpace(cell)
	if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return trimmed
	}
	// Edited grids serialize integers as floats at times ("12.0").
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return cell
}
