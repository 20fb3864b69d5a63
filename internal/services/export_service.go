package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"financetrack/internal/core"
	"financetrack/internal/export"
	"financetrack/internal/storage"
)

// ExportService loads the data of one export.
type ExportService struct {
	store ReportStore
	now   func() time.Time
}

func NewExportService(store ReportStore) *ExportService {
	return &ExportService{store: store, now: time.Now}
}

// Bundle builds the export of userID between start and end inclusive. A
// missing start means the first recorded transaction, a missing end means today.
func (s *ExportService) Bundle(ctx context.Context, userID string, start, end core.Date) (export.Bundle, error) {
	now := s.now().UTC()
	if end.IsEmpty() {
		end = core.DateOf(now)
	}
	if !start.IsEmpty() && start.After(end.Time) {
		return export.Bundle{}, core.ErrInvalidRange
	}

	var (
		txs   []core.Transaction
		names map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = s.store.ListTransactions(gctx, userID, storage.TransactionFilter{Start: start, End: end})
		return err
	})
	g.Go(func() (err error) {
		names, err = categoryNames(gctx, s.store, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return export.Bundle{}, fmt.Errorf("load export data: %w", err)
	}

	if start.IsEmpty() {
		start = end
		for _, t := range txs {
			if t.Date.Before(start.Time) {
				start = t.Date
			}
		}
	}
	r, err := core.NewDateRange(start, end)
	if err != nil {
		return export.Bundle{}, err
	}

	b := export.NewBundle(txs, names, r, now)
	slog.InfoContext(ctx, "Export prepared",
		"user_id", userID,
		"range_start", r.Start.String(),
		"range_end", r.End.String(),
		"transactions", len(b.Transactions))
	return b, nil
}
