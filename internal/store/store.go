// Package store owns the transaction and budget goal collections. It is
// the single writer to durable storage: every mutation synchronously
// re-serializes the affected collection through the CollectionStore port.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"budgetbook/internal/core"
)

// Store keeps both collections in memory, most-recent-first, and persists
// them on every mutation. The mutex exists because the HTTP boundary is
// concurrent; operations never coordinate across each other.
type Store struct {
	mu      sync.Mutex
	backend CollectionStore

	txs   []core.Transaction
	goals []core.BudgetGoal

	now   func() time.Time
	newID func() string
}

// TransactionDraft carries every transaction field the caller supplies;
// ID and CreatedAt are assigned by the store.
type TransactionDraft struct {
	Kind        core.Kind
	Amount      core.Money
	Category    string
	Description string
	Date        core.Date
	Recurring   bool
	Frequency   core.Frequency
}

// TransactionPatch is a partial update; nil fields are left untouched.
type TransactionPatch struct {
	Kind        *core.Kind
	Amount      *core.Money
	Category    *string
	Description *string
	Date        *core.Date
	Recurring   *bool
	Frequency   *core.Frequency
}

// GoalDraft carries the caller-supplied fields of a budget goal.
type GoalDraft struct {
	Category string
	Limit    core.Money
	Month    string
}

// GoalPatch is a partial goal update; nil fields are left untouched.
type GoalPatch struct {
	Category *string
	Limit    *core.Money
	Month    *string
}

// Open loads both collections from the backend. Unreadable or unparseable
// content degrades to an empty collection instead of failing startup.
func Open(ctx context.Context, backend CollectionStore) (*Store, error) {
	txs, err := backend.LoadTransactions(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Loading transactions failed, starting empty", "error", err)
		txs = nil
	}
	goals, err := backend.LoadGoals(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Loading goals failed, starting empty", "error", err)
		goals = nil
	}

	slog.InfoContext(ctx, "Store opened", "transactions", len(txs), "goals", len(goals))
	return &Store{
		backend: backend,
		txs:     txs,
		goals:   goals,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// Add assigns a fresh id and creation timestamp, prepends the record, and
// persists the whole transaction collection. A persistence failure
// surfaces to the caller and is not retried.
func (s *Store) Add(ctx context.Context, d TransactionDraft) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := core.Transaction{
		ID:          s.newID(),
		Kind:        d.Kind,
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		Date:        d.Date,
		CreatedAt:   s.now().UTC(),
		Recurring:   d.Recurring,
		Frequency:   d.Frequency,
	}
	s.txs = append([]core.Transaction{t}, s.txs...)

	if err := s.backend.SaveTransactions(ctx, s.txs); err != nil {
		return core.Transaction{}, fmt.Errorf("persist transactions: %w", err)
	}
	slog.InfoContext(ctx, "Transaction added",
		"id", t.ID, "type", t.Kind, "amount_cents", t.Amount.Cents, "category", t.Category)
	return t, nil
}

// Update merges the patch into the matching record. It reports whether
// the id was found; an unknown id is not an error. The collection is
// persisted either way, mirroring Delete's miss behavior.
func (s *Store) Update(ctx context.Context, id string, p TransactionPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.txs {
		if s.txs[i].ID != id {
			continue
		}
		applyTransactionPatch(&s.txs[i], p)
		found = true
		break
	}

	if err := s.backend.SaveTransactions(ctx, s.txs); err != nil {
		return found, fmt.Errorf("persist transactions: %w", err)
	}
	if !found {
		slog.DebugContext(ctx, "Update of unknown transaction id ignored", "id", id)
	}
	return found, nil
}

// Delete removes the matching record, reporting whether it existed.
// Durable storage is rewritten even on a miss.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.txs[:0]
	for _, t := range s.txs {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	s.txs = kept

	if err := s.backend.SaveTransactions(ctx, s.txs); err != nil {
		return found, fmt.Errorf("persist transactions: %w", err)
	}
	return found, nil
}

// Transaction returns the record with the given id.
func (s *Store) Transaction(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txs {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}

// Transactions returns a copy of the collection, most recent first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...)
}

// AddGoal mirrors Add for the budget goal collection, which persists
// under its own durable key. Duplicate (category, month) pairs are
// accepted.
func (s *Store) AddGoal(ctx context.Context, d GoalDraft) (core.BudgetGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := core.BudgetGoal{
		ID:       s.newID(),
		Category: d.Category,
		Limit:    d.Limit,
		Month:    d.Month,
	}
	s.goals = append([]core.BudgetGoal{g}, s.goals...)

	if err := s.backend.SaveGoals(ctx, s.goals); err != nil {
		return core.BudgetGoal{}, fmt.Errorf("persist goals: %w", err)
	}
	slog.InfoContext(ctx, "Budget goal added",
		"id", g.ID, "category", g.Category, "month", g.Month, "limit_cents", g.Limit.Cents)
	return g, nil
}

// UpdateGoal merges the patch into the matching goal; same miss contract
// as Update.
func (s *Store) UpdateGoal(ctx context.Context, id string, p GoalPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.goals {
		if s.goals[i].ID != id {
			continue
		}
		if p.Category != nil {
			s.goals[i].Category = *p.Category
		}
		if p.Limit != nil {
			s.goals[i].Limit = *p.Limit
		}
		if p.Month != nil {
			s.goals[i].Month = *p.Month
		}
		found = true
		break
	}

	if err := s.backend.SaveGoals(ctx, s.goals); err != nil {
		return found, fmt.Errorf("persist goals: %w", err)
	}
	return found, nil
}

// DeleteGoal removes the matching goal; same miss contract as Delete.
func (s *Store) DeleteGoal(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	kept := s.goals[:0]
	for _, g := range s.goals {
		if g.ID == id {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	s.goals = kept

	if err := s.backend.SaveGoals(ctx, s.goals); err != nil {
		return found, fmt.Errorf("persist goals: %w", err)
	}
	return found, nil
}

// Goal returns the goal with the given id.
func (s *Store) Goal(id string) (core.BudgetGoal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, true
		}
	}
	return core.BudgetGoal{}, false
}

// Goals returns a copy of the goal collection, most recent first.
func (s *Store) Goals() []core.BudgetGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BudgetGoal(nil), s.goals...)
}

func applyTransactionPatch(t *core.Transaction, p TransactionPatch) {
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Recurring != nil {
		t.Recurring = *p.Recurring
	}
	if p.Frequency != nil {
		t.Frequency = *p.Frequency
	}
}
