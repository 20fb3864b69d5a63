// Package worker mirrors stored transactions into the spreadsheet ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financetrack/internal/amqp"
	"financetrack/internal/core"
	"financetrack/internal/sheets"
	"financetrack/internal/storage"
)

// DefaultBatchSize bounds one sweep of pending transactions.
const DefaultBatchSize = 50

// Store is the slice of the repository the worker needs.
type Store interface {
	GetTransactionByID(ctx context.Context, id string) (core.Transaction, error)
	GetCategory(ctx context.Context, userID, id string) (core.Category, error)
	GetPendingSyncTransactions(ctx context.Context, limit int) ([]storage.PendingSyncTransaction, error)
	MarkSynced(ctx context.Context, id string, version int64) error
	MarkSyncError(ctx context.Context, id string) error
}

var _ Store = (*storage.SQLiteRepository)(nil)

// SyncWorker handles synchronization of transactions from SQLite to the ledger
type SyncWorker struct {
	store     Store
	ledger    sheets.LedgerWriter
	batchSize int
}

func NewSyncWorker(store Store, ledger sheets.LedgerWriter, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SyncWorker{
		store:     store,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleMessage dispatches one AMQP message. Returning an error makes the
// consumer requeue the message once.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionMessage) error {
	switch msg.Action {
	case amqp.ActionDelete:
		return w.handleDelete(ctx, msg)
	default:
		return w.handleSync(ctx, msg)
	}
}

func (w *SyncWorker) handleSync(ctx context.Context, msg *amqp.TransactionMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	t, err := w.store.GetTransactionByID(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted after the message was published; the delete message handles the ledger.
		slog.InfoContext(ctx, "Transaction no longer exists, skipping sync", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if msg.Version != 0 && t.Version != msg.Version {
		slog.InfoContext(ctx, "Stale sync message, skipping",
			"id", msg.ID,
			"message_version", msg.Version,
			"stored_version", t.Version)
		return nil
	}

	return w.syncTransaction(ctx, t)
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.TransactionMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID, "user_id", msg.UserID)

	if err := w.ledger.Delete(ctx, msg.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to delete ledger row",
			"id", msg.ID,
			"error", err,
			"timestamp", msg.Timestamp)
		return fmt.Errorf("delete ledger row: %w", err)
	}

	slog.InfoContext(ctx, "Successfully deleted ledger row", "id", msg.ID)
	return nil
}

// ProcessPending syncs transactions that haven't been mirrored yet and
// returns how many succeeded. It backs up lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) (int, error) {
	synced, _, err := w.processPending(ctx, w.batchSize)
	return synced, err
}

// StartupSyncCheck syncs a larger batch of pending transactions at worker
// startup to recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	synced, failed, err := w.processPending(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	if synced+failed == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}
	slog.InfoContext(ctx, "Startup sync completed",
		"total", synced+failed,
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) (synced, failed int, err error) {
	pending, err := w.store.GetPendingSyncTransactions(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return synced, failed, err
		}

		t, err := w.store.GetTransactionByID(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction", "id", p.ID, "error", err)
			if err := w.store.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			failed++
			continue
		}

		if err := w.syncTransaction(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}
	return synced, failed, nil
}

func (w *SyncWorker) syncTransaction(ctx context.Context, t core.Transaction) error {
	name := ""
	if c, err := w.store.GetCategory(ctx, t.UserID, t.CategoryID); err == nil {
		name = c.Name
	} else if !errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Failed to resolve category name", "id", t.ID, "category_id", t.CategoryID, "error", err)
	}

	ref, err := w.ledger.Upsert(ctx, sheets.RowFrom(t, name))
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", t.ID, "error", markErr)
		}
		return fmt.Errorf("upsert ledger row: %w", err)
	}

	// A failed mark leaves the transaction pending for the next sweep.
	if err := w.store.MarkSynced(ctx, t.ID, t.Version); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", t.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"id", t.ID,
		"version", t.Version,
		"sheets_row", ref,
		"amount_cents", t.Amount.Cents)
	return nil
}
