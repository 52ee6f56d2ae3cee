// Package memory provides an in-memory CollectionStore for tests and
// ephemeral runs. Nothing survives process exit.
package memory

import (
	"context"
	"sync"

	"budgetbook/internal/core"
)

type Store struct {
	mu    sync.Mutex
	txs   []core.Transaction
	goals []core.BudgetGoal
}

func New() *Store {
	return &Store{}
}

func (s *Store) LoadTransactions(context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

func (s *Store) SaveTransactions(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append([]core.Transaction(nil), txs...)
	return nil
}

func (s *Store) LoadGoals(context.Context) ([]core.BudgetGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BudgetGoal(nil), s.goals...), nil
}

func (s *Store) SaveGoals(_ context.Context, goals []core.BudgetGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append([]core.BudgetGoal(nil), goals...)
	return nil
}

func (s *Store) Close() error { return nil }
