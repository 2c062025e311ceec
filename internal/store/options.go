package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// JSONOptions stores the option enumerations in a JSON object keyed by
// category.
type JSONOptions struct {
	mu   sync.Mutex
	path string
}

func NewJSONOptions(path string) *JSONOptions {
	return &JSONOptions{path: path}
}

// Load returns the persisted options merged with the built-in defaults for
// any missing category. Corruption degrades to the defaults.
func (s *JSONOptions) Load() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONOptions) load() Options {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Options{}.withDefaults()
	}
	var o Options
	if err := json.Unmarshal(data, &o); err != nil {
		return Options{}.withDefaults()
	}
	return o.withDefaults()
}

// Save overwrites the options file; last writer wins.
func (s *JSONOptions) Save(o Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(o)
}

func (s *JSONOptions) save(o Options) error {
	data, err := json.Marshal(o.withDefaults())
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write options: %w", err)
	}
	return nil
}

// Add inserts value into the category unless an exact match already exists,
// then sorts and persists. Adding twice is a no-op after the first.
func (s *JSONOptions) Add(category, value string) error {
	if value == "" {
		return fmt.Errorf("empty option value")
	}
	if !validCategory(category) {
		return fmt.Errorf("unknown option category %q", category)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.load()
	list := o.List(category)
	for _, v := range list {
		if v == value {
			return nil
		}
	}
	list = append(list, value)
	sort.Strings(list)
	o.setList(category, list)
	return s.save(o)
}

func validCategory(category string) bool {
	switch category {
	case CategoryResponsavel, CategoryInconsistencias, CategoryStatus:
		return true
	}
	return false
}

// Remove deletes an exact match from the category and persists.
func (s *JSONOptions) Remove(category, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.load()
	list := o.List(category)
	for i, v := range list {
		if v == value {
			o.setList(category, append(list[:i], list[i+1:]...))
			return s.save(o)
		}
	}
	return nil
}
