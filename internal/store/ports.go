// Package store holds the persistence layer for upload history, option
// enumerations and export settings. The on-disk JSON formats are the
// legacy-compatible interchange files; all access goes through repository
// interfaces so a SQLite backend can be swapped in by configuration.
package store

import (
	"sort"

	"contabil/internal/core"
)

// HistoryEntry references one cached upload. The ledger owns the reference,
// the FileStore owns the bytes.
type HistoryEntry struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
	Timestamp    int64  `json:"timestamp"`
}

// Options are the persisted selection-field enumerations.
type Options struct {
	Responsavel     []string `json:"responsavel"`
	Inconsistencias []string `json:"inconsistencias"`
	Status          []string `json:"status"`
}

// Settings is the single-record export configuration.
type Settings struct {
	SheetName  string `json:"sheet_name"`
	EmailShare string `json:"email_share"`
}

// Option categories as used in the JSON file and the management UI.
const (
	CategoryResponsavel     = "responsavel"
	CategoryInconsistencias = "inconsistencias"
	CategoryStatus          = "status"
)

// OptionOutro is the catch-all sentinel appended to the responsible-party
// and inconsistency lists at read time.
const OptionOutro = "Outro"

// DefaultStatus is the built-in status set guaranteed on first use.
func DefaultStatus() []string {
	return []string{"Pendente", "Resolvido", "Em Análise", "Cancelado"}
}

// HistoryRepository is the upload ledger. Load returns entries newest-first;
// the stored order is authoritative. A missing or corrupt store reads as
// empty, never as an error.
type HistoryRepository interface {
	Load() []HistoryEntry
	Save(entries []HistoryEntry) error
}

// OptionsRepository persists the option enumerations. Add is idempotent and
// keeps each category sorted; Remove deletes exact matches only.
type OptionsRepository interface {
	Load() Options
	Save(o Options) error
	Add(category, value string) error
	Remove(category, value string) error
}

// SettingsRepository persists the single settings record, last write wins.
type SettingsRepository interface {
	Load() Settings
	Save(s Settings) error
}

// List returns the category's values. Unknown categories yield nil.
func (o Options) List(category string) []string {
	switch category {
	case CategoryResponsavel:
		return o.Responsavel
	case CategoryInconsistencias:
		return o.Inconsistencias
	case CategoryStatus:
		return o.Status
	}
	return nil
}

func (o *Options) setList(category string, values []string) {
	switch category {
	case CategoryResponsavel:
		o.Responsavel = values
	case CategoryInconsistencias:
		o.Inconsistencias = values
	case CategoryStatus:
		o.Status = values
	}
}

// withDefaults fills missing categories; status always has the built-in set
// when the file never defined one.
func (o Options) withDefaults() Options {
	if o.Responsavel == nil {
		o.Responsavel = []string{}
	}
	if o.Inconsistencias == nil {
		o.Inconsistencias = []string{}
	}
	if len(o.Status) == 0 {
		o.Status = DefaultStatus()
	}
	return o
}

// EffectiveOptions is the derived working option set for one loaded table:
// persisted values unioned with in-data values, plus the Outro sentinel for
// the open-ended categories. Never persisted.
type EffectiveOptions struct {
	Responsavel     []string
	Inconsistencias []string
	Status          []string
}

// Effective computes the working option lists for a table. A nil table
// yields the persisted lists (plus sentinel) alone.
func Effective(o Options, t *core.Table) EffectiveOptions {
	var resp, inc []string
	if t != nil {
		resp = t.DistinctValues(core.ColResponsavel)
		inc = t.DistinctValues(core.ColInconsistencias)
	}
	return EffectiveOptions{
		Responsavel:     sortedUnion(o.Responsavel, resp, OptionOutro),
		Inconsistencias: sortedUnion(o.Inconsistencias, inc, OptionOutro),
		Status:          sortedUnion(o.Status, nil, ""),
	}
}

func sortedUnion(a, b []string, sentinel string) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range a {
		add(v)
	}
	for _, v := range b {
		add(v)
	}
	add(sentinel)
	sort.Strings(out)
	return out
}
