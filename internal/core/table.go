package core

// Table is an in-memory spreadsheet: an ordered set of columns plus rows.
// Every row carries a synthetic ID assigned at load time; the ID is the row
// identity for the whole edit session, independent of filtering or sorting.
type Table struct {
	// Path is the cache file this table was loaded from ("" for detached tables).
	Path    string
	Columns []string
	Rows    []Row

	nextID int64
}

// Row is one spreadsheet row. Fields maps column name to the raw cell value;
// columns absent from the map render as empty cells.
type Row struct {
	ID     int64
	Fields map[string]string
}

func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds a row with the given fields and assigns it a fresh ID.
func (t *Table) Append(fields map[string]string) *Row {
	t.nextID++
	t.Rows = append(t.Rows, Row{ID: t.nextID, Fields: copyFields(fields)})
	return &t.Rows[len(t.Rows)-1]
}

// Adopt inserts an externally built row, assigning a fresh ID regardless of
// the ID the caller set.
func (t *Table) Adopt(r Row) *Row {
	return t.Append(r.Fields)
}

// ByID returns the row with the given ID, or nil.
func (t *Table) ByID(id int64) *Row {
	for i := range t.Rows {
		if t.Rows[i].ID == id {
			return &t.Rows[i]
		}
	}
	return nil
}

// RemoveByID deletes the row with the given ID, preserving order.
// Returns false when no such row exists.
func (t *Table) RemoveByID(id int64) bool {
	for i := range t.Rows {
		if t.Rows[i].ID == id {
			t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
			return true
		}
	}
	return false
}

// HasColumn reports whether the table has a column with that exact name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// EnsureColumn appends the column if absent. Existing rows keep their field
// maps untouched; missing keys render as empty cells.
func (t *Table) EnsureColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// DistinctValues returns the distinct non-empty values of a column in first
// occurrence order.
func (t *Table) DistinctValues(column string) []string {
	seen := map[string]struct{}{}
	var out []string
	for i := range t.Rows {
		v := t.Rows[i].Fields[column]
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Clone deep-copies the table. Row IDs are preserved so a clone can serve as
// a filtered view whose rows still name rows of the source table.
func (t *Table) Clone() *Table {
	c := &Table{
		Path:    t.Path,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
		nextID:  t.nextID,
	}
	for i := range t.Rows {
		c.Rows[i] = Row{ID: t.Rows[i].ID, Fields: copyFields(t.Rows[i].Fields)}
	}
	return c
}

// IDs returns the row IDs in table order.
func (t *Table) IDs() []int64 {
	out := make([]int64, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Rows[i].ID
	}
	return out
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
