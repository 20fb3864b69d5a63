package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"financetrack/internal/core"
)

const transactionColumns = `id, user_id, type, category_id, amount_cents, description, date, version, created_at, updated_at`

// TransactionFilter narrows a transaction listing. Zero fields match everything.
type TransactionFilter struct {
	Start      core.Date
	End        core.Date
	Type       core.TxType
	CategoryID string
}

// PendingSyncTransaction is the minimal data needed to enqueue a sync message.
type PendingSyncTransaction struct {
	ID        string
	Version   int64
	CreatedAt time.Time
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	now := r.timestamp()
	t.Version = 1
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`, sync_status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, string(t.Type), t.CategoryID, t.Amount.Cents, t.Description,
		formatDate(t.Date), t.Version, now, now, SyncPending)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	t.CreatedAt, _ = parseTime(now)
	t.UpdatedAt = t.CreatedAt

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"user_id", t.UserID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, notFound(err, "get transaction")
	}
	return t, nil
}

// GetTransactionByID loads a transaction regardless of owner. Used by the sync worker.
func (r *SQLiteRepository) GetTransactionByID(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, notFound(err, "get transaction by id")
	}
	return t, nil
}

// ListTransactions returns the user's transactions, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, f TransactionFilter) ([]core.Transaction, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if !f.Start.IsEmpty() {
		where = append(where, "date >= ?")
		args = append(args, formatDate(f.Start))
	}
	if !f.End.IsEmpty() {
		where = append(where, "date <= ?")
		args = append(args, formatDate(f.End))
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, f.CategoryID)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY date DESC, created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// UpdateTransaction writes t, bumps its version and resets its sync state.
// The returned transaction carries the new version.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	now := r.timestamp()
	row := r.db.QueryRowContext(ctx,
		`UPDATE transactions
		 SET type = ?, category_id = ?, amount_cents = ?, description = ?, date = ?,
		     version = version + 1, sync_status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING `+transactionColumns,
		string(t.Type), t.CategoryID, t.Amount.Cents, t.Description, formatDate(t.Date),
		SyncPending, now, t.ID, t.UserID)
	updated, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, notFound(err, "update transaction")
	}

	slog.InfoContext(ctx, "Transaction updated", "id", updated.ID, "version", updated.Version)
	return updated, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := expectOne(res, "delete transaction"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id, "user_id", userID)
	return nil
}

// GetPendingSyncTransactions returns transactions not yet mirrored, oldest
// first. Transactions whose last sync failed are retried after every pending one.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version, created_at FROM transactions
		 WHERE sync_status IN (?, ?)
		 ORDER BY sync_status = ?, created_at, id LIMIT ?`, SyncPending, SyncError, SyncError, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncTransaction
	for rows.Next() {
		var (
			p       PendingSyncTransaction
			created string
		)
		if err := rows.Scan(&p.ID, &p.Version, &created); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced marks a transaction as mirrored, unless it changed after version was read.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, version int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ?, synced_at = ? WHERE id = ? AND version = ?`,
		SyncSynced, r.timestamp(), id, version)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "id", id, "version", version)
	return nil
}

// MarkSyncError marks a transaction as having sync errors
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncError, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

// SyncStatus returns the sync state of a transaction.
func (r *SQLiteRepository) SyncStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT sync_status FROM transactions WHERE id = ?`, id).Scan(&status)
	if err != nil {
		return "", notFound(err, "get sync status")
	}
	return status, nil
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		t                core.Transaction
		typ, date        string
		created, updated string
		err              error
	)
	if err = s.Scan(&t.ID, &t.UserID, &typ, &t.CategoryID, &t.Amount.Cents, &t.Description,
		&date, &t.Version, &created, &updated); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TxType(typ)
	if t.Date, err = parseDate(date); err != nil {
		return core.Transaction{}, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return core.Transaction{}, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
