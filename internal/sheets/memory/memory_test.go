package memory

import (
	"context"
	"errors"
	"testing"

	"financetrack/internal/core"
	"financetrack/internal/sheets"
)

func TestMemoryStoreUpsertListDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	ref, err := s.Upsert(ctx, sheets.LedgerRow{TransactionID: "a", Amount: core.Money{Cents: 100}, Version: 1})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected upsert: ref=%q err=%v", ref, err)
	}
	if ref, _ = s.Upsert(ctx, sheets.LedgerRow{TransactionID: "b", Version: 1}); ref != "mem:2" {
		t.Fatalf("second row ref = %q", ref)
	}

	// same id replaces in place
	ref, err = s.Upsert(ctx, sheets.LedgerRow{TransactionID: "a", Amount: core.Money{Cents: 250}, Version: 2})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected update: ref=%q err=%v", ref, err)
	}
	rows, _ := s.List(ctx)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	got, err := s.Get("a")
	if err != nil || got.Version != 2 || got.Amount.Cents != 250 {
		t.Fatalf("Get(a) = %+v, %v", got, err)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("deleting a missing row should succeed: %v", err)
	}
	if _, err := s.Get("a"); !errors.Is(err, sheets.ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
	rows, _ = s.List(ctx)
	if len(rows) != 1 || rows[0].TransactionID != "b" {
		t.Fatalf("rows after delete = %+v", rows)
	}
}

func TestMemoryStoreRejectsEmptyID(t *testing.T) {
	if _, err := New().Upsert(context.Background(), sheets.LedgerRow{}); err == nil {
		t.Fatal("expected error for empty transaction id")
	}
}

func TestRowFrom(t *testing.T) {
	tx := core.Transaction{ID: "t", UserID: "u", Type: core.Expense, Amount: core.Money{Cents: 5}, Version: 4}
	if r := sheets.RowFrom(tx, ""); r.Category != core.UncategorizedName || r.Version != 4 {
		t.Fatalf("RowFrom = %+v", r)
	}
	if r := sheets.RowFrom(tx, "Food"); r.Category != "Food" {
		t.Fatalf("RowFrom = %+v", r)
	}
}
