package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"financetrack/internal/core"
)

func TestExportService_Bundle(t *testing.T) {
	svc := NewExportService(seedReportData(t))
	svc.now = func() time.Time { return reportNow }
	ctx := context.Background()

	b, err := svc.Bundle(ctx, "u1", core.Date{}, core.Date{})
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if b.Range.Start.String() != "2025-02-27" || b.Range.End.String() != "2025-03-12" {
		t.Errorf("range = %s..%s", b.Range.Start, b.Range.End)
	}
	if len(b.Transactions) != 4 || b.Transactions[0].Date.String() != "2025-03-10" {
		t.Errorf("transactions = %+v", b.Transactions)
	}
	if b.Totals.Expense.Cents != 14000 {
		t.Errorf("expense total = %d", b.Totals.Expense.Cents)
	}

	march, err := svc.Bundle(ctx, "u1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31))
	if err != nil {
		t.Fatalf("Bundle march: %v", err)
	}
	if len(march.Transactions) != 3 || len(march.Trend) != 1 {
		t.Errorf("march bundle = %d rows, %d trend buckets", len(march.Transactions), len(march.Trend))
	}
}

func TestExportService_EmptyUser(t *testing.T) {
	svc := NewExportService(seedReportData(t))
	svc.now = func() time.Time { return reportNow }

	b, err := svc.Bundle(context.Background(), "u2", core.Date{}, core.Date{})
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if b.Range.Start.String() != "2025-03-12" || len(b.Transactions) != 0 {
		t.Errorf("empty bundle = %+v", b)
	}
}

func TestExportService_InvertedRange(t *testing.T) {
	svc := NewExportService(seedReportData(t))
	_, err := svc.Bundle(context.Background(), "u1", core.NewDate(2025, 4, 1), core.NewDate(2025, 3, 1))
	if !errors.Is(err, core.ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}
