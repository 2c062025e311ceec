package backend

import (
	"fmt"

	"contabil/internal/log"
	"contabil/internal/storage"
	"contabil/internal/store"
)

// Factory creates repository sets based on configuration.
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.ForComponent(log.ComponentBackend)
	}
	return &Factory{logger: logger}
}

// Create wires the repositories for the configured backend.
func (f *Factory) Create(cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case JSONBackend:
		return f.createJSON(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createSQLite(cfg Config) (*Result, error) {
	db, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite backend: %w", err)
	}

	f.logger.Info("initialized sqlite backend", log.FieldDBPath, cfg.SQLiteDBPath)

	return &Result{
		Repositories: Repositories{
			History:  db.History(),
			Options:  db.Options(),
			Settings: db.Settings(),
		},
		Cleanup: db.Close,
	}, nil
}

func (f *Factory) createJSON(cfg Config) (*Result, error) {
	f.logger.Info("initialized json backend",
		"history_file", cfg.HistoryFile,
		"options_file", cfg.OptionsFile,
		"settings_file", cfg.SettingsFile)

	return &Result{
		Repositories: Repositories{
			History:  store.NewJSONHistory(cfg.HistoryFile),
			Options:  store.NewJSONOptions(cfg.OptionsFile),
			Settings: store.NewJSONSettings(cfg.SettingsFile),
		},
		Cleanup: nil,
	}, nil
}
