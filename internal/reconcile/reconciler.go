// Package reconcile merges edited row sets back into the authoritative full
// table and persists the result to the file the table was loaded from.
// Rows are matched by the synthetic IDs assigned at load time, so edits made
// on a filtered or re-sorted view land on the right rows.
package reconcile

import (
	"fmt"

	"contabil/internal/core"
	"contabil/internal/tabular"
)

// Apply merges an edited view into full and writes the table back.
//
// viewIDs names the rows of full the user's view started from. Relative to
// that view, the edited rows decompose into
//   - updates: IDs present in full, whole-row overwritten with the edit;
//   - deletions: IDs in viewIDs missing from edited, removed from full;
//   - insertions: edited rows whose ID is zero or unknown, appended with
//     fresh IDs.
//
// Rows of full outside the view are untouched and keep their order. Any
// error leaves the file unwritten; the caller's in-memory table may have
// been mutated and should be reloaded.
func Apply(full *core.Table, viewIDs []int64, edited []core.Row) error {
	if err := merge(full, viewIDs, edited); err != nil {
		return err
	}
	return persist(full)
}

func merge(full *core.Table, viewIDs []int64, edited []core.Row) error {
	editedByID := make(map[int64]core.Row, len(edited))
	var inserts []core.Row
	for _, r := range edited {
		if r.ID != 0 && full.ByID(r.ID) != nil {
			editedByID[r.ID] = r
		} else {
			inserts = append(inserts, r)
		}
	}

	// Deletions first: rows the user started from that the edit no longer has.
	for _, id := range viewIDs {
		if _, ok := editedByID[id]; !ok {
			full.RemoveByID(id)
		}
	}

	// Whole-row overwrite for every surviving edited identity. Field-level
	// diffing is deliberately not attempted.
	for id, r := range editedByID {
		target := full.ByID(id)
		if target == nil {
			continue
		}
		target.Fields = normalizeFields(full, r.Fields)
	}

	for _, r := range inserts {
		addColumns(full, r.Fields)
		full.Append(normalizeFields(full, r.Fields))
	}
	return nil
}

// ApplyBulk overwrites the named columns with a uniform value on every row
// in ids, then writes the table back. Unknown IDs are skipped; the
// single-session model makes them unreachable in practice.
func ApplyBulk(full *core.Table, ids []int64, changes map[string]string) error {
	if len(changes) == 0 {
		return fmt.Errorf("no fields selected for bulk edit")
	}
	for col := range changes {
		full.EnsureColumn(col)
	}
	for _, id := range ids {
		r := full.ByID(id)
		if r == nil {
			continue
		}
		for col, v := range changes {
			r.Fields[col] = v
		}
	}
	return persist(full)
}

// AppendEntries appends validated manual entries to the table and writes it
// back. Columns the entries do not carry stay empty on the new rows.
func AppendEntries(full *core.Table, entries []core.Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("empty entry queue")
	}
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	for _, e := range entries {
		fields := e.Fields()
		addColumns(full, fields)
		full.Append(fields)
	}
	return persist(full)
}

func persist(full *core.Table) error {
	if full.Path == "" {
		return fmt.Errorf("table has no backing file")
	}
	if err := tabular.Write(full, full.Path); err != nil {
		return fmt.Errorf("persist table: %w", err)
	}
	return nil
}

// normalizeFields coerces edit-time representations back to canonical cell
// values: numeric-looking Quantidade strings are normalized, Dia is parsed
// to the canonical layout when possible. Non-coercible values pass through
// untouched rather than erroring.
func normalizeFields(t *core.Table, fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	if t.HasColumn(core.ColQuantidade) {
		out[core.ColQuantidade] = tabular.NormalizeQuantidade(out[core.ColQuantidade])
	}
	if t.HasColumn(core.ColDia) {
		out[core.ColDia] = tabular.CanonicalDia(out[core.ColDia])
	}
	return out
}

func addColumns(t *core.Table, fields map[string]string) {
	for col := range fields {
		t.EnsureColumn(col)
	}
}
