// Package services provides business logic built on top of the store.
//
// This file implements the Strategy Pattern for recurring transaction
// scheduling. Each frequency has its own calculator that encapsulates
// the logic for projecting the next occurrence.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/store"
)

// ErrNotRecurring marks operations attempted on a non-recurring record.
var ErrNotRecurring = errors.New("transaction is not recurring")

// DueCalculator is the strategy interface for projecting when a recurring
// transaction next occurs.
type DueCalculator interface {
	// NextDue returns the first occurrence strictly after the template date.
	NextDue(from core.Date) core.Date
}

// WeeklyCalculator implements DueCalculator for weekly recurring transactions.
type WeeklyCalculator struct{}

// NextDue returns the date seven days after the template date.
func (WeeklyCalculator) NextDue(from core.Date) core.Date {
	return core.Date{Time: from.AddDate(0, 0, 7)}
}

// MonthlyCalculator implements DueCalculator for monthly recurring transactions.
type MonthlyCalculator struct{}

// NextDue returns the date one calendar month after the template date.
// time.AddDate normalizes overflow, so Jan 31 projects to Mar 2 or 3.
func (MonthlyCalculator) NextDue(from core.Date) core.Date {
	return core.Date{Time: from.AddDate(0, 1, 0)}
}

// dueStrategies maps frequencies to their corresponding calculators.
var dueStrategies = map[core.Frequency]DueCalculator{
	core.Weekly:  WeeklyCalculator{},
	core.Monthly: MonthlyCalculator{},
}

// GetDueCalculator returns the calculator for a frequency. An empty
// frequency on a recurring record falls back to monthly.
func GetDueCalculator(frequency core.Frequency) (DueCalculator, error) {
	if frequency == "" {
		frequency = core.Monthly
	}
	calc, ok := dueStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return calc, nil
}

// RegisterDueCalculator allows registering calculators for new frequency types.
func RegisterDueCalculator(frequency core.Frequency, calc DueCalculator) {
	dueStrategies[frequency] = calc
}

// NextDueDate projects the next occurrence of a recurring transaction
// from its template date.
func NextDueDate(t core.Transaction) (core.Date, error) {
	if !t.Recurring {
		return core.Date{}, fmt.Errorf("%w: %s", ErrNotRecurring, t.ID)
	}
	calc, err := GetDueCalculator(t.Frequency)
	if err != nil {
		return core.Date{}, err
	}
	return calc.NextDue(t.Date), nil
}

// IsOverdue reports whether the projected occurrence is strictly before
// the current moment. Due dates are midnight timestamps, so a template
// due today counts as overdue from the first moment of that day.
func IsOverdue(t core.Transaction, now time.Time) (bool, error) {
	due, err := NextDueDate(t)
	if err != nil {
		return false, err
	}
	return due.Before(now), nil
}

// Projection pairs a recurring template with its computed schedule.
type Projection struct {
	Transaction core.Transaction `json:"transaction"`
	NextDue     core.Date        `json:"nextDue"`
	Overdue     bool             `json:"overdue"`
}

// RecurringService lists recurring templates and materializes occurrences.
type RecurringService struct {
	store *store.Store
	now   func() time.Time
}

// NewRecurringService creates a recurring service over the given store.
func NewRecurringService(s *store.Store) *RecurringService {
	return &RecurringService{store: s, now: time.Now}
}

// List returns a projection for every recurring transaction, in store order.
// Templates with an unknown frequency are skipped rather than failing the
// whole listing.
func (r *RecurringService) List() []Projection {
	now := r.now().UTC()
	var out []Projection
	for _, t := range r.store.Transactions() {
		if !t.Recurring {
			continue
		}
		due, err := NextDueDate(t)
		if err != nil {
			continue
		}
		overdue, _ := IsOverdue(t, now)
		out = append(out, Projection{Transaction: t, NextDue: due, Overdue: overdue})
	}
	return out
}

// ApplyNow materializes a recurring template as a fresh non-recurring
// transaction dated today. The template itself is left untouched, so the
// projected schedule does not advance.
func (r *RecurringService) ApplyNow(ctx context.Context, id string) (core.Transaction, bool, error) {
	t, ok := r.store.Transaction(id)
	if !ok {
		return core.Transaction{}, false, nil
	}
	if !t.Recurring {
		return core.Transaction{}, true, fmt.Errorf("%w: %s", ErrNotRecurring, id)
	}

	now := r.now().UTC()
	created, err := r.store.Add(ctx, store.TransactionDraft{
		Kind:        t.Kind,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        core.Date{Time: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		return core.Transaction{}, true, err
	}
	return created, true, nil
}
