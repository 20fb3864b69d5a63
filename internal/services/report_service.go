package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"financetrack/internal/cache"
	"financetrack/internal/core"
	"financetrack/internal/storage"
)

// ReportStore is the read side needed to build reports.
type ReportStore interface {
	ListTransactions(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error)
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
}

// ReportService computes reports and caches them per user until the next write.
type ReportService struct {
	store ReportStore
	cache cache.Cache[any]
	weeks int
	now   func() time.Time

	// generations counts invalidations per user. A build started before an
	// invalidation must not store its result.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewReportService creates the service. A nil cache disables caching.
func NewReportService(store ReportStore, c cache.Cache[any], weeks int) *ReportService {
	if weeks <= 0 {
		weeks = core.DefaultReportWeeks
	}
	return &ReportService{
		store:       store,
		cache:       c,
		weeks:       weeks,
		now:         time.Now,
		generations: make(map[string]uint64),
	}
}

// Invalidate drops every cached report of userID.
func (s *ReportService) Invalidate(userID string) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[userID]++
	if n := s.cache.DeletePrefix(userID + ":"); n > 0 {
		slog.Debug("Report cache invalidated", "user_id", userID, "entries", n)
	}
}

// Monthly returns every month with activity.
func (s *ReportService) Monthly(ctx context.Context, userID string) ([]core.PeriodTotals, error) {
	return cached(s, userID, userID+":monthly", func() ([]core.PeriodTotals, error) {
		txs, err := s.store.ListTransactions(ctx, userID, storage.TransactionFilter{})
		if err != nil {
			return nil, fmt.Errorf("monthly report: %w", err)
		}
		return core.MonthlyReport(txs), nil
	})
}

// Weekly returns the last weeks ISO weeks, zero-filled. weeks <= 0 uses the configured default.
func (s *ReportService) Weekly(ctx context.Context, userID string, weeks int) ([]core.PeriodTotals, error) {
	if weeks <= 0 {
		weeks = s.weeks
	}
	now := s.now().UTC()
	key := fmt.Sprintf("%s:weekly:%d:%s", userID, weeks, core.DateOf(now))
	return cached(s, userID, key, func() ([]core.PeriodTotals, error) {
		r := core.WeeklyRange(now, weeks)
		txs, err := s.store.ListTransactions(ctx, userID, storage.TransactionFilter{Start: r.Start, End: r.End})
		if err != nil {
			return nil, fmt.Errorf("weekly report: %w", err)
		}
		return core.WeeklyReport(txs, now, weeks), nil
	})
}

// Range aggregates the transactions between start and end inclusive.
func (s *ReportService) Range(ctx context.Context, userID string, start, end core.Date) (core.RangeReport, error) {
	r, err := core.NewDateRange(start, end)
	if err != nil {
		return core.RangeReport{}, err
	}
	key := fmt.Sprintf("%s:range:%s:%s", userID, r.Start, r.End)
	return cached(s, userID, key, func() (core.RangeReport, error) {
		var (
			txs   []core.Transaction
			names map[string]string
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			txs, err = s.store.ListTransactions(gctx, userID, storage.TransactionFilter{Start: r.Start, End: r.End})
			return err
		})
		g.Go(func() (err error) {
			names, err = categoryNames(gctx, s.store, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return core.RangeReport{}, fmt.Errorf("range report: %w", err)
		}
		return core.BuildRangeReport(txs, r, names), nil
	})
}

// Summary returns overall totals, budget usage in each budget's current window
// and goal progress.
func (s *ReportService) Summary(ctx context.Context, userID string) (core.Summary, error) {
	now := s.now().UTC()
	key := fmt.Sprintf("%s:summary:%s", userID, core.DateOf(now))
	return cached(s, userID, key, func() (core.Summary, error) {
		var (
			txs     []core.Transaction
			budgets []core.Budget
			goals   []core.Goal
			names   map[string]string
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			txs, err = s.store.ListTransactions(gctx, userID, storage.TransactionFilter{})
			return err
		})
		g.Go(func() (err error) {
			budgets, err = s.store.ListBudgets(gctx, userID)
			return err
		})
		g.Go(func() (err error) {
			goals, err = s.store.ListGoals(gctx, userID)
			return err
		})
		g.Go(func() (err error) {
			names, err = categoryNames(gctx, s.store, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return core.Summary{}, fmt.Errorf("summary: %w", err)
		}
		return core.BuildSummary(txs, budgets, goals, names, WindowAt(now), now), nil
	})
}

func cached[T any](s *ReportService, userID, key string, build func() (T, error)) (T, error) {
	if s.cache == nil {
		return build()
	}
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	s.mu.Lock()
	gen := s.generations[userID]
	s.mu.Unlock()

	v, err := build()
	if err != nil {
		return v, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[userID] == gen {
		s.cache.Set(key, v)
	}
	return v, nil
}
