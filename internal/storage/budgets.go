package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"financetrack/internal/core"
)

const budgetColumns = `id, user_id, category_id, amount_cents, spent_cents, remaining_cents, period, start_date, end_date, created_at`

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := r.timestamp()
	b.Recompute()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.CategoryID, b.Amount.Cents, b.Spent.Cents, b.Remaining.Cents,
		string(b.Period), formatDate(b.StartDate), nullableDate(b.EndDate), now, now)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	b.CreatedAt, _ = parseTime(now)

	slog.InfoContext(ctx, "Budget created",
		"id", b.ID,
		"user_id", b.UserID,
		"category_id", b.CategoryID,
		"amount_cents", b.Amount.Cents,
		"period", b.Period)
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if err != nil {
		return core.Budget{}, notFound(err, "get budget")
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	return r.queryBudgets(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY start_date DESC, id`, userID)
}

// ListAllBudgets returns every budget across users. Used by the budget worker.
func (r *SQLiteRepository) ListAllBudgets(ctx context.Context) ([]core.Budget, error) {
	return r.queryBudgets(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY user_id, id`)
}

func (r *SQLiteRepository) queryBudgets(ctx context.Context, query string, args ...any) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []core.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	b.Recompute()
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		 SET category_id = ?, amount_cents = ?, spent_cents = ?, remaining_cents = ?,
		     period = ?, start_date = ?, end_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		b.CategoryID, b.Amount.Cents, b.Spent.Cents, b.Remaining.Cents,
		string(b.Period), formatDate(b.StartDate), nullableDate(b.EndDate), r.timestamp(),
		b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return expectOne(res, "update budget")
}

// UpdateBudgetSpent stores a recalculated spend and the derived remaining amount.
func (r *SQLiteRepository) UpdateBudgetSpent(ctx context.Context, id string, spent core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET spent_cents = ?, remaining_cents = amount_cents - ?, updated_at = ? WHERE id = ?`,
		spent.Cents, spent.Cents, r.timestamp(), id)
	if err != nil {
		return fmt.Errorf("update budget spent: %w", err)
	}
	return expectOne(res, "update budget spent")
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if err := expectOne(res, "delete budget"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Budget deleted", "id", id, "user_id", userID)
	return nil
}

func scanBudget(s scanner) (core.Budget, error) {
	var (
		b             core.Budget
		period, start string
		end           sql.NullString
		created       string
		err           error
	)
	if err = s.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount.Cents, &b.Spent.Cents,
		&b.Remaining.Cents, &period, &start, &end, &created); err != nil {
		return core.Budget{}, err
	}
	b.Period = core.BudgetPeriod(period)
	if b.StartDate, err = parseDate(start); err != nil {
		return core.Budget{}, err
	}
	if b.EndDate, err = parseNullDate(end); err != nil {
		return core.Budget{}, err
	}
	if b.CreatedAt, err = parseTime(created); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}
