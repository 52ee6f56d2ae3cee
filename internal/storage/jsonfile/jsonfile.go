// Package jsonfile is the default durable backend: each collection is one
// flat JSON array file under a data directory, rewritten whole on every
// save, matching the original key-per-collection layout.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budgetbook/internal/core"
)

const (
	transactionsFile = "transactions.json"
	goalsFile        = "goals.json"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	return load[core.Transaction](ctx, filepath.Join(s.dir, transactionsFile))
}

func (s *Store) SaveTransactions(_ context.Context, txs []core.Transaction) error {
	return save(filepath.Join(s.dir, transactionsFile), txs)
}

func (s *Store) LoadGoals(ctx context.Context) ([]core.BudgetGoal, error) {
	return load[core.BudgetGoal](ctx, filepath.Join(s.dir, goalsFile))
}

func (s *Store) SaveGoals(_ context.Context, goals []core.BudgetGoal) error {
	return save(filepath.Join(s.dir, goalsFile), goals)
}

func (s *Store) Close() error { return nil }

// load reads a JSON array file. A missing file is an empty collection;
// unparseable content also degrades to empty with a warning, so a damaged
// file never blocks startup.
func load[T any](ctx context.Context, path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.WarnContext(ctx, "Discarding unparseable collection file",
			"file", filepath.Base(path), "error", err)
		return nil, nil
	}
	return items, nil
}

// save writes the collection atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated collection behind.
func save[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
