package services

import (
	"context"
	"testing"
	"time"
)

func TestBudgetProcessor_Recalculate(t *testing.T) {
	repo := seedReportData(t)
	inv := &countingInvalidator{}
	p := NewBudgetProcessor(repo, inv)
	ctx := context.Background()

	updated, err := p.Recalculate(ctx, reportNow)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	b, err := repo.GetBudget(ctx, "u1", "b1")
	if err != nil {
		t.Fatalf("GetBudget: %v", err)
	}
	if b.Spent.Cents != 11000 || b.Remaining.Cents != -1000 {
		t.Errorf("budget spent/remaining = %d/%d, want 11000/-1000", b.Spent.Cents, b.Remaining.Cents)
	}
	if inv.count() != 1 {
		t.Errorf("invalidations = %d, want 1", inv.count())
	}

	again, err := p.Recalculate(ctx, reportNow)
	if err != nil {
		t.Fatalf("second Recalculate: %v", err)
	}
	if again != 0 {
		t.Errorf("second pass updated %d budgets, want 0", again)
	}
}

func TestBudgetProcessor_NewWindow(t *testing.T) {
	repo := seedReportData(t)
	p := NewBudgetProcessor(repo, nil)
	ctx := context.Background()

	if _, err := p.Recalculate(ctx, reportNow); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	// February holds only the 30.00 expense.
	if _, err := p.Recalculate(ctx, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Recalculate february: %v", err)
	}
	b, err := repo.GetBudget(ctx, "u1", "b1")
	if err != nil {
		t.Fatalf("GetBudget: %v", err)
	}
	if b.Spent.Cents != 3000 || b.Remaining.Cents != 7000 {
		t.Errorf("february spent/remaining = %d/%d", b.Spent.Cents, b.Remaining.Cents)
	}
}

func TestBudgetProcessor_CancelledContext(t *testing.T) {
	p := NewBudgetProcessor(seedReportData(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Recalculate(ctx, reportNow); err == nil {
		t.Error("expected error for cancelled context")
	}
}
