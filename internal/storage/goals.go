package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"financetrack/internal/core"
)

const goalColumns = `id, user_id, title, target_cents, current_cents, category_id, deadline, status, created_at`

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	now := r.timestamp()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.CategoryID,
		nullableDate(g.Deadline), string(g.Status), now, now)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	g.CreatedAt, _ = parseTime(now)

	slog.InfoContext(ctx, "Goal created", "id", g.ID, "user_id", g.UserID, "target_cents", g.TargetAmount.Cents)
	return g, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if err != nil {
		return core.Goal{}, notFound(err, "get goal")
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []core.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals
		 SET title = ?, target_cents = ?, current_cents = ?, category_id = ?, deadline = ?, status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.CategoryID,
		nullableDate(g.Deadline), string(g.Status), r.timestamp(), g.ID, g.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return expectOne(res, "update goal")
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if err := expectOne(res, "delete goal"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Goal deleted", "id", id, "user_id", userID)
	return nil
}

func scanGoal(s scanner) (core.Goal, error) {
	var (
		g        core.Goal
		deadline sql.NullString
		status   string
		created  string
		err      error
	)
	if err = s.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
		&g.CategoryID, &deadline, &status, &created); err != nil {
		return core.Goal{}, err
	}
	g.Status = core.GoalStatus(status)
	if g.Deadline, err = parseNullDate(deadline); err != nil {
		return core.Goal{}, err
	}
	if g.CreatedAt, err = parseTime(created); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}
