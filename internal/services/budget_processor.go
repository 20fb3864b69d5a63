package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financetrack/internal/core"
	"financetrack/internal/storage"
)

// BudgetProcessorStore is what the budget worker reads and writes.
type BudgetProcessorStore interface {
	ListAllBudgets(ctx context.Context) ([]core.Budget, error)
	ListTransactions(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error)
	UpdateBudgetSpent(ctx context.Context, id string, spent core.Money) error
}

// BudgetProcessor recomputes the spend of every budget in its current window.
type BudgetProcessor struct {
	store BudgetProcessorStore
	inv   Invalidator
}

func NewBudgetProcessor(store BudgetProcessorStore, inv Invalidator) *BudgetProcessor {
	return &BudgetProcessor{store: store, inv: inv}
}

// Recalculate stores the spend of each budget whose stored value is stale and
// returns how many budgets changed. A failing budget is logged and skipped.
func (p *BudgetProcessor) Recalculate(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	budgets, err := p.store.ListAllBudgets(ctx)
	if err != nil {
		return 0, fmt.Errorf("list budgets: %w", err)
	}

	slog.InfoContext(ctx, "Recalculating budgets",
		"total", len(budgets),
		"processing_date", now.Format("2006-01-02"))

	updated := 0
	for _, b := range budgets {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		window, err := BudgetWindow(b, now)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to resolve budget window", "budget_id", b.ID, "error", err)
			continue
		}

		txs, err := p.store.ListTransactions(ctx, b.UserID, storage.TransactionFilter{
			Start:      window.Start,
			End:        window.End,
			Type:       core.Expense,
			CategoryID: b.CategoryID,
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load budget transactions", "budget_id", b.ID, "error", err)
			continue
		}

		spent := core.BudgetSpent(txs, b, window)
		if spent == b.Spent && b.Remaining == b.Amount.Sub(spent) {
			continue
		}
		if err := p.store.UpdateBudgetSpent(ctx, b.ID, spent); err != nil {
			slog.ErrorContext(ctx, "Failed to store budget spend", "budget_id", b.ID, "error", err)
			continue
		}
		invalidate(p.inv, b.UserID)

		updated++
		slog.InfoContext(ctx, "Budget spend updated",
			"budget_id", b.ID,
			"user_id", b.UserID,
			"window_start", window.Start.String(),
			"window_end", window.End.String(),
			"spent_cents", spent.Cents,
			"limit_cents", b.Amount.Cents)
	}

	slog.InfoContext(ctx, "Budget recalculation complete", "updated", updated, "total_checked", len(budgets))
	return updated, nil
}
