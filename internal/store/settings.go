package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// JSONSettings stores the export settings as a single JSON object.
type JSONSettings struct {
	mu   sync.Mutex
	path string
}

func NewJSONSettings(path string) *JSONSettings {
	return &JSONSettings{path: path}
}

// Load reads the settings; a missing or corrupt file reads as empty.
func (s *JSONSettings) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Settings{}
	}
	var out Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return Settings{}
	}
	return out
}

// Save overwrites the settings record.
func (s *JSONSettings) Save(v Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
