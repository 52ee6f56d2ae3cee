package backend

import (
	"context"
	"fmt"
	"log/slog"

	"budgetbook/internal/storage/jsonfile"
	"budgetbook/internal/storage/memory"
	"budgetbook/internal/storage/sqlite"
	"budgetbook/internal/store"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (store.CollectionStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case JSONFileBackend:
		return f.createJSONFileBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createJSONFileBackend(config Config) (store.CollectionStore, error) {
	fs, err := jsonfile.New(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JSON file backend: %w", err)
	}

	f.logger.Info("Initialized JSON file backend", "data_directory", config.DataDirectory)
	return fs, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (store.CollectionStore, error) {
	repo, err := sqlite.New(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (store.CollectionStore, error) {
	f.logger.Info("Initialized memory backend")
	return memory.New(), nil
}
