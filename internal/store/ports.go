package store

import (
	"context"

	"budgetbook/internal/core"
)

// CollectionStore is the port to durable storage. The two collections are
// independently keyed; each Save rewrites its collection in full.
type CollectionStore interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	SaveTransactions(ctx context.Context, txs []core.Transaction) error

	LoadGoals(ctx context.Context) ([]core.BudgetGoal, error)
	SaveGoals(ctx context.Context, goals []core.BudgetGoal) error

	Close() error
}
