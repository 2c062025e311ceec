// Package storage provides the SQLite-backed repositories. It mirrors the
// JSON stores in internal/store behind the same interfaces, so the backend
// is an operational choice, not an API change.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"contabil/internal/store"
)

// DB wraps the shared SQLite handle. The per-concern repositories all hang
// off the same connection pool.
type DB struct {
	conn *sql.DB
}

// Open creates the database file if needed, applies pending migrations and
// returns a ready handle.
func Open(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// History returns the upload ledger repository.
func (d *DB) History() *History { return &History{db: d.conn} }

// Options returns the option enumerations repository.
func (d *DB) Options() *Options { return &Options{db: d.conn} }

// Settings returns the export settings repository.
func (d *DB) Settings() *Settings { return &Settings{db: d.conn} }

// History keeps the upload ledger in the upload_history table. The position
// column preserves the newest-first order the JSON ledger stores implicitly.
type History struct {
	db *sql.DB
}

func (h *History) Load() []store.HistoryEntry {
	rows, err := h.db.Query(`SELECT path, original_name, timestamp FROM upload_history ORDER BY position`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var entries []store.HistoryEntry
	for rows.Next() {
		var e store.HistoryEntry
		if err := rows.Scan(&e.Path, &e.OriginalName, &e.Timestamp); err != nil {
			return nil
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil
	}
	return entries
}

func (h *History) Save(entries []store.HistoryEntry) error {
	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("begin history save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM upload_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	for i, e := range entries {
		if _, err := tx.Exec(
			`INSERT INTO upload_history (position, path, original_name, timestamp) VALUES (?, ?, ?, ?)`,
			i, e.Path, e.OriginalName, e.Timestamp,
		); err != nil {
			return fmt.Errorf("insert history entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history save: %w", err)
	}
	return nil
}

// Options keeps one row per (category, value) pair in option_values.
type Options struct {
	db *sql.DB
}

func (o *Options) Load() store.Options {
	rows, err := o.db.Query(`SELECT category, value FROM option_values ORDER BY value`)
	if err != nil {
		return defaults(store.Options{})
	}
	defer rows.Close()

	var opts store.Options
	for rows.Next() {
		var category, value string
		if err := rows.Scan(&category, &value); err != nil {
			return defaults(store.Options{})
		}
		switch category {
		case store.CategoryResponsavel:
			opts.Responsavel = append(opts.Responsavel, value)
		case store.CategoryInconsistencias:
			opts.Inconsistencias = append(opts.Inconsistencias, value)
		case store.CategoryStatus:
			opts.Status = append(opts.Status, value)
		}
	}
	if rows.Err() != nil {
		return defaults(store.Options{})
	}
	return defaults(opts)
}

func (o *Options) Save(opts store.Options) error {
	tx, err := o.db.Begin()
	if err != nil {
		return fmt.Errorf("begin options save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM option_values`); err != nil {
		return fmt.Errorf("clear options: %w", err)
	}
	opts = defaults(opts)
	for category, values := range map[string][]string{
		store.CategoryResponsavel:     opts.Responsavel,
		store.CategoryInconsistencias: opts.Inconsistencias,
		store.CategoryStatus:          opts.Status,
	} {
		for _, v := range values {
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO option_values (category, value) VALUES (?, ?)`,
				category, v,
			); err != nil {
				return fmt.Errorf("insert option value: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit options save: %w", err)
	}
	return nil
}

func (o *Options) Add(category, value string) error {
	if value == "" {
		return fmt.Errorf("empty option value")
	}
	if !validCategory(category) {
		return fmt.Errorf("unknown option category %q", category)
	}
	if _, err := o.db.Exec(
		`INSERT OR IGNORE INTO option_values (category, value) VALUES (?, ?)`,
		category, value,
	); err != nil {
		return fmt.Errorf("add option value: %w", err)
	}
	return nil
}

func (o *Options) Remove(category, value string) error {
	if _, err := o.db.Exec(
		`DELETE FROM option_values WHERE category = ? AND value = ?`,
		category, value,
	); err != nil {
		return fmt.Errorf("remove option value: %w", err)
	}
	return nil
}

func validCategory(category string) bool {
	switch category {
	case store.CategoryResponsavel, store.CategoryInconsistencias, store.CategoryStatus:
		return true
	}
	return false
}

func defaults(o store.Options) store.Options {
	if o.Responsavel == nil {
		o.Responsavel = []string{}
	}
	if o.Inconsistencias == nil {
		o.Inconsistencias = []string{}
	}
	if len(o.Status) == 0 {
		o.Status = store.DefaultStatus()
	}
	return o
}

// Settings keeps the single export configuration record.
type Settings struct {
	db *sql.DB
}

func (s *Settings) Load() store.Settings {
	var out store.Settings
	err := s.db.QueryRow(`SELECT sheet_name, email_share FROM settings WHERE id = 1`).
		Scan(&out.SheetName, &out.EmailShare)
	if err != nil {
		return store.Settings{}
	}
	return out
}

func (s *Settings) Save(cfg store.Settings) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (id, sheet_name, email_share) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET sheet_name = excluded.sheet_name, email_share = excluded.email_share`,
		cfg.SheetName, cfg.EmailShare,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
