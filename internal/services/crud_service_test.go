package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"financetrack/internal/core"
)

func TestCategoryService_CRUD(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u1")
	inv := &countingInvalidator{}
	svc := NewCategoryService(repo, inv)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", CategoryInput{Name: "Food"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing type err = %v", err)
	}
	if _, err := svc.Create(ctx, "u1", CategoryInput{Name: "Food", Type: core.Expense, Color: "red"}); !errors.Is(err, core.ErrInvalidColor) {
		t.Fatalf("bad color err = %v", err)
	}

	c, err := svc.Create(ctx, "u1", CategoryInput{Name: " Food ", Type: core.Expense})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Food" || c.Color != core.DefaultCategoryColor {
		t.Errorf("created = %+v", c)
	}

	color := "#FF8800"
	updated, err := svc.Update(ctx, "u1", c.ID, CategoryPatch{Color: &color})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Color != color || updated.Name != "Food" {
		t.Errorf("updated = %+v", updated)
	}

	names, err := svc.Names(ctx, "u1")
	if err != nil || names[c.ID] != "Food" {
		t.Errorf("Names = %v, %v", names, err)
	}

	if err := svc.Delete(ctx, "u1", c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "u1", c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	if inv.count() != 2 {
		t.Errorf("invalidations = %d, want 2", inv.count())
	}
}

func TestBudgetService_CRUD(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u1")
	seedCategory(t, repo, "u1", "food", "Food", core.Expense)
	svc := NewBudgetService(repo, repo, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", BudgetInput{CategoryID: "food"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing amount err = %v", err)
	}
	if _, err := svc.Create(ctx, "u1", BudgetInput{CategoryID: "rent", Amount: core.Money{Cents: 100}}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("unknown category err = %v", err)
	}
	if _, err := svc.Create(ctx, "u1", BudgetInput{
		CategoryID: "food", Amount: core.Money{Cents: 100}, Period: "yearly",
	}); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Fatalf("bad period err = %v", err)
	}

	b, err := svc.Create(ctx, "u1", BudgetInput{
		CategoryID: "food", Amount: core.Money{Cents: 10000}, Spent: core.Money{Cents: 2500},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Period != core.Monthly || b.StartDate.String() != "2025-03-12" {
		t.Errorf("defaults not applied: %+v", b)
	}
	if b.Remaining.Cents != 7500 {
		t.Errorf("remaining = %d, want 7500", b.Remaining.Cents)
	}

	amount := core.Money{Cents: 2000}
	updated, err := svc.Update(ctx, "u1", b.ID, BudgetPatch{Amount: &amount})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Remaining.Cents != -500 {
		t.Errorf("remaining after update = %d, want -500", updated.Remaining.Cents)
	}

	end := core.NewDate(2025, 1, 1)
	if _, err := svc.Update(ctx, "u1", b.ID, BudgetPatch{EndDate: &end}); !errors.Is(err, core.ErrInvalidDateOrder) {
		t.Errorf("end before start err = %v", err)
	}

	got, err := svc.Get(ctx, "u1", b.ID)
	if err != nil || got.Amount != amount {
		t.Errorf("Get = %+v, %v", got, err)
	}
	if err := svc.Delete(ctx, "u1", b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := svc.List(ctx, "u1")
	if err != nil || len(list) != 0 {
		t.Errorf("List after delete = %+v, %v", list, err)
	}
}

func TestGoalService_CRUD(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "u1")
	seedCategory(t, repo, "u1", "savings", "Savings", core.Income)
	inv := &countingInvalidator{}
	svc := NewGoalService(repo, repo, inv)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", GoalInput{Title: "Car"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing target err = %v", err)
	}
	if _, err := svc.Create(ctx, "u1", GoalInput{
		Title: "Car", TargetAmount: core.Money{Cents: 100}, CategoryID: "nope",
	}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("unknown category err = %v", err)
	}

	g, err := svc.Create(ctx, "u1", GoalInput{
		Title: "Car", TargetAmount: core.Money{Cents: 500000}, Deadline: core.NewDate(2026, 1, 1),
	})
	if err != nil {
		t.Fatalf("Create without category: %v", err)
	}
	if g.Status != core.GoalActive {
		t.Errorf("status = %q, want active", g.Status)
	}

	current := core.Money{Cents: 125000}
	category := "savings"
	updated, err := svc.Update(ctx, "u1", g.ID, GoalPatch{CurrentAmount: &current, CategoryID: &category})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CurrentAmount != current || updated.CategoryID != "savings" {
		t.Errorf("updated = %+v", updated)
	}

	bad := core.GoalStatus("paused")
	if _, err := svc.Update(ctx, "u1", g.ID, GoalPatch{Status: &bad}); !errors.Is(err, core.ErrInvalidStatus) {
		t.Errorf("bad status err = %v", err)
	}

	if err := svc.Delete(ctx, "u1", g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "u1", g.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
	if inv.count() != 3 {
		t.Errorf("invalidations = %d, want 3", inv.count())
	}
}
