package backend

import (
	"contabil/internal/store"
)

// Repositories bundles the persistence ports one backend provides. The
// handlers only ever see these interfaces; the concrete backend is wired
// once at startup.
type Repositories struct {
	History  store.HistoryRepository
	Options  store.OptionsRepository
	Settings store.SettingsRepository
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result contains the repositories and an optional cleanup function.
type Result struct {
	Repositories Repositories
	Cleanup      CleanupFunc
}

// Type selects the persistence backend.
type Type string

const (
	// JSONBackend keeps the legacy flat-file stores.
	JSONBackend Type = "json"
	// SQLiteBackend keeps everything in a single SQLite database.
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds what backend creation needs.
type Config struct {
	Type Type

	// JSON backend file paths.
	HistoryFile  string
	OptionsFile  string
	SettingsFile string

	// SQLite backend database path.
	SQLiteDBPath string
}
