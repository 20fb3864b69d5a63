package storage

import (
	"context"
	"fmt"
	"log/slog"

	"financetrack/internal/core"
)

const userColumns = `id, name, email, password_hash, phone, role, created_at`

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	u.Email = core.NormalizeEmail(u.Email)
	created := r.timestamp()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, string(u.Role), created)
	if isUniqueViolation(err) {
		return core.User{}, fmt.Errorf("create user: %w", core.ErrEmailTaken)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	u.CreatedAt, _ = parseTime(created)

	slog.InfoContext(ctx, "User created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, notFound(err, "get user")
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, core.NormalizeEmail(email))
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, notFound(err, "get user by email")
	}
	return u, nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(s scanner) (core.User, error) {
	var (
		u       core.User
		role    string
		created string
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &role, &created); err != nil {
		return core.User{}, err
	}
	u.Role = core.Role(role)
	t, err := parseTime(created)
	if err != nil {
		return core.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}
