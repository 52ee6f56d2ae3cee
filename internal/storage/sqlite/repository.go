// Package sqlite is an alternative durable backend keeping both
// collections in a local SQLite database. Saves replace the collection
// inside one transaction, preserving the full-rewrite persistence
// contract of the flat-file layout.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"budgetbook/internal/core"
)

const (
	dateLayout    = "2006-01-02"
	createdLayout = time.RFC3339Nano
)

type Repository struct {
	db *sql.DB
}

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, amount_cents, category, description, date, created_at, recurring, frequency
		FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			t         core.Transaction
			date      string
			createdAt string
			recurring int64
		)
		if err := rows.Scan(&t.ID, &t.Kind, &t.Amount.Cents, &t.Category,
			&t.Description, &date, &createdAt, &recurring, &t.Frequency); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		if t.CreatedAt, err = time.Parse(createdLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		t.Recurring = recurring != 0
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *Repository) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for i, t := range txs {
		recurring := 0
		if t.Recurring {
			recurring = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, kind, amount_cents, category, description, date, created_at, recurring, frequency, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, string(t.Kind), t.Amount.Cents, t.Category, t.Description,
			t.Date.Format(dateLayout), t.CreatedAt.Format(createdLayout),
			recurring, string(t.Frequency), i); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transactions: %w", err)
	}
	return nil
}

func (r *Repository) LoadGoals(ctx context.Context) ([]core.BudgetGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, limit_cents, month
		FROM budget_goals ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []core.BudgetGoal
	for rows.Next() {
		var g core.BudgetGoal
		if err := rows.Scan(&g.ID, &g.Category, &g.Limit.Cents, &g.Month); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

func (r *Repository) SaveGoals(ctx context.Context, goals []core.BudgetGoal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_goals`); err != nil {
		return fmt.Errorf("clear goals: %w", err)
	}
	for i, g := range goals {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO budget_goals (id, category, limit_cents, month, position)
			VALUES (?, ?, ?, ?, ?)`,
			g.ID, g.Category, g.Limit.Cents, g.Month, i); err != nil {
			return fmt.Errorf("insert goal %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit goals: %w", err)
	}
	return nil
}
