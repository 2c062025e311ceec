package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxHistory is the ledger cap: only this many cached uploads are kept.
const MaxHistory = 3

// ErrNotCached marks a ledger entry whose backing file is gone. Stale
// entries are detected lazily at open time, never proactively cleaned.
var ErrNotCached = errors.New("cached file not found")

// FileStore owns the cache directory holding uploaded spreadsheet copies
// and keeps the history ledger in step with the files it writes.
type FileStore struct {
	dir     string
	history HistoryRepository

	now func() time.Time
}

func NewFileStore(dir string, history HistoryRepository) *FileStore {
	return &FileStore{dir: dir, history: history, now: time.Now}
}

// Persist writes the uploaded bytes into the cache directory under a
// timestamp-prefixed name and registers the copy in the ledger. The ledger
// is only touched after a successful write, so a failed upload can never
// leave a dangling entry. Returns the cache path.
func (fs *FileStore) Persist(originalName string, data []byte) (string, error) {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	ts := fs.now().Unix()
	path := filepath.Join(fs.dir, fmt.Sprintf("%d_%s", ts, filepath.Base(originalName)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write cache file: %w", err)
	}

	entries := fs.history.Load()

	// Only the latest version of a named file stays in the ledger. The
	// superseded copies stay on disk; they are orphaned intentionally.
	kept := entries[:0]
	for _, e := range entries {
		if e.OriginalName != originalName {
			kept = append(kept, e)
		}
	}

	entries = append([]HistoryEntry{{
		Path:         path,
		OriginalName: originalName,
		Timestamp:    ts,
	}}, kept...)

	for len(entries) > MaxHistory {
		oldest := entries[len(entries)-1]
		entries = entries[:len(entries)-1]
		if err := os.Remove(oldest.Path); err != nil && !os.IsNotExist(err) {
			// Best effort: a leftover file is tolerable, a failed upload is not.
			slog.Warn("Failed to delete evicted cache file", "path", oldest.Path, "error", err)
		}
	}

	if err := fs.history.Save(entries); err != nil {
		return "", fmt.Errorf("update history: %w", err)
	}
	return path, nil
}

// Open resolves a cache path for reading, reporting ErrNotCached when the
// backing file has been deleted behind the ledger's back.
func (fs *FileStore) Open(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotCached
		}
		return "", fmt.Errorf("stat cache file: %w", err)
	}
	return path, nil
}

// DisplayName strips the timestamp prefix from a cache file name, giving
// back the name the user uploaded.
func DisplayName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "_"); i >= 0 {
		return base[i+1:]
	}
	return base
}
