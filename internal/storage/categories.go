package storage

import (
	"context"
	"fmt"
	"log/slog"

	"financetrack/internal/core"
)

const categoryColumns = `id, user_id, name, type, color, created_at`

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	created := r.timestamp()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, string(c.Type), c.Color, created)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.CreatedAt, _ = parseTime(created)

	slog.InfoContext(ctx, "Category created", "id", c.ID, "user_id", c.UserID, "type", c.Type)
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	c, err := scanCategory(row)
	if err != nil {
		return core.Category{}, notFound(err, "get category")
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, color = ? WHERE id = ? AND user_id = ?`,
		c.Name, string(c.Type), c.Color, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return expectOne(res, "update category")
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := expectOne(res, "delete category"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Category deleted", "id", id, "user_id", userID)
	return nil
}

func scanCategory(s scanner) (core.Category, error) {
	var (
		c       core.Category
		typ     string
		created string
	)
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &typ, &c.Color, &created); err != nil {
		return core.Category{}, err
	}
	c.Type = core.TxType(typ)
	t, err := parseTime(created)
	if err != nil {
		return core.Category{}, err
	}
	c.CreatedAt = t
	return c, nil
}
