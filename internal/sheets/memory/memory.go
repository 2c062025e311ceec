package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"contabil/internal/core"
	"contabil/internal/store"
)

// Store is an in-memory exporter used in tests and local development. It
// keeps the last snapshot per sheet name.
type Store struct {
	mu        sync.Mutex
	snapshots map[string][][]string
	shared    map[string]string
	exports   int
}

func New() *Store {
	return &Store{
		snapshots: make(map[string][][]string),
		shared:    make(map[string]string),
	}
}

// Export snapshots the table under cfg.SheetName, header row first.
func (s *Store) Export(_ context.Context, t *core.Table, cfg store.Settings) (string, error) {
	if t == nil {
		return "", errors.New("nil table")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		return "", errors.New("sheet name not configured")
	}

	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, append([]string(nil), t.Columns...))
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = row.Fields[col]
		}
		rows = append(rows, cells)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.snapshots[cfg.SheetName]; !exists && cfg.EmailShare != "" {
		s.shared[cfg.SheetName] = cfg.EmailShare
	}
	s.snapshots[cfg.SheetName] = rows
	s.exports++
	return fmt.Sprintf("mem:%s", cfg.SheetName), nil
}

// Snapshot returns the last exported rows for a sheet name.
func (s *Store) Snapshot(sheetName string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.snapshots[sheetName]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// SharedWith reports the email a sheet was shared with at creation.
func (s *Store) SharedWith(sheetName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shared[sheetName]
}

// Exports reports how many exports completed.
func (s *Store) Exports() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exports
}
