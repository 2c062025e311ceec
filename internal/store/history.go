package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// JSONHistory stores the upload ledger in a JSON array, newest-first.
type JSONHistory struct {
	mu   sync.Mutex
	path string
}

func NewJSONHistory(path string) *JSONHistory {
	return &JSONHistory{path: path}
}

// Load reads the ledger. Missing or unparsable files read as no history.
func (h *JSONHistory) Load() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return readHistoryFile(h.path)
}

// Save overwrites the ledger file. No crash-consistency guarantee is
// required here; a plain overwrite matches the legacy format.
func (h *JSONHistory) Save(entries []HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if entries == nil {
		entries = []HistoryEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

func readHistoryFile(path string) []HistoryEntry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}
