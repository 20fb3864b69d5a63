package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"financetrack/internal/cache"
	"financetrack/internal/core"
	"financetrack/internal/storage"
)

var reportNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

// seedReportData stores a month of activity for u1 plus one February expense.
func seedReportData(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo := newTestRepo(t)
	seedUser(t, repo, "u1")
	seedUser(t, repo, "u2")
	seedCategory(t, repo, "u1", "food", "Food", core.Expense)
	seedCategory(t, repo, "u1", "salary", "Salary", core.Income)

	seedTx(t, repo, "u1", "s1", "salary", core.Income, 200000, core.NewDate(2025, 3, 1))
	seedTx(t, repo, "u1", "f1", "food", core.Expense, 6000, core.NewDate(2025, 3, 2))
	seedTx(t, repo, "u1", "f2", "food", core.Expense, 5000, core.NewDate(2025, 3, 10))
	seedTx(t, repo, "u1", "f3", "food", core.Expense, 3000, core.NewDate(2025, 2, 27))

	ctx := context.Background()
	if _, err := repo.CreateBudget(ctx, core.Budget{
		ID: "b1", UserID: "u1", CategoryID: "food", Amount: core.Money{Cents: 10000},
		Period: core.Monthly, StartDate: core.NewDate(2025, 1, 1),
	}); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if _, err := repo.CreateGoal(ctx, core.Goal{
		ID: "g1", UserID: "u1", Title: "Holiday", TargetAmount: core.Money{Cents: 100000},
		CurrentAmount: core.Money{Cents: 25000}, Status: core.GoalActive,
	}); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	return repo
}

func newReportService(repo *storage.SQLiteRepository) *ReportService {
	svc := NewReportService(repo, cache.NewLRUCache[any](100, time.Hour), 0)
	svc.now = func() time.Time { return reportNow }
	return svc
}

func TestReportService_Summary(t *testing.T) {
	svc := newReportService(seedReportData(t))

	s, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.TotalIncome.Cents != 200000 || s.TotalExpenses.Cents != 14000 || s.NetBalance.Cents != 186000 {
		t.Errorf("totals = %d/%d/%d", s.TotalIncome.Cents, s.TotalExpenses.Cents, s.NetBalance.Cents)
	}

	if len(s.BudgetUsage) != 1 {
		t.Fatalf("budget usage = %+v", s.BudgetUsage)
	}
	u := s.BudgetUsage[0]
	if u.Category != "Food" || u.Spent.Cents != 11000 || u.Remaining.Cents != -1000 {
		t.Errorf("usage = %+v", u)
	}
	if u.Status != core.StatusOverBudget {
		t.Errorf("status = %q, want over budget", u.Status)
	}
	if u.WindowStart.String() != "2025-03-01" || u.WindowEnd.String() != "2025-03-31" {
		t.Errorf("window = %s..%s", u.WindowStart, u.WindowEnd)
	}

	if len(s.GoalsProgress) != 1 || s.GoalsProgress[0].Percent != 25 || s.GoalsProgress[0].Remaining.Cents != 75000 {
		t.Errorf("goals = %+v", s.GoalsProgress)
	}
}

func TestReportService_EmptyUser(t *testing.T) {
	svc := newReportService(seedReportData(t))

	s, err := svc.Summary(context.Background(), "u2")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.NetBalance.Cents != 0 || len(s.BudgetUsage) != 0 || len(s.GoalsProgress) != 0 {
		t.Errorf("empty user summary = %+v", s)
	}
	if s.BudgetUsage == nil || s.GoalsProgress == nil {
		t.Error("empty collections must be non-nil")
	}
}

func TestReportService_MonthlyAndWeekly(t *testing.T) {
	svc := newReportService(seedReportData(t))
	ctx := context.Background()

	monthly, err := svc.Monthly(ctx, "u1")
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(monthly) != 2 || monthly[0].Key != "2025-02" || monthly[1].Key != "2025-03" {
		t.Fatalf("monthly = %+v", monthly)
	}
	if monthly[1].Income.Cents != 200000 || monthly[1].Expense.Cents != 11000 || monthly[1].Net.Cents != 189000 {
		t.Errorf("march = %+v", monthly[1])
	}

	weekly, err := svc.Weekly(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}
	if len(weekly) != 2 {
		t.Fatalf("weekly buckets = %d, want 2", len(weekly))
	}
	if weekly[0].Key != "2025-W10" || weekly[0].Count != 0 {
		t.Errorf("first week = %+v", weekly[0])
	}
	if weekly[1].Key != "2025-W11" || weekly[1].Expense.Cents != 5000 {
		t.Errorf("second week = %+v", weekly[1])
	}

	def, err := svc.Weekly(ctx, "u1", 0)
	if err != nil || len(def) != core.DefaultReportWeeks {
		t.Errorf("default weeks = %d, %v", len(def), err)
	}
}

func TestReportService_Range(t *testing.T) {
	svc := newReportService(seedReportData(t))
	ctx := context.Background()

	r, err := svc.Range(ctx, "u1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31))
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if r.Totals.Income.Cents != 200000 || r.Totals.Expense.Cents != 11000 || r.Totals.Count != 3 {
		t.Errorf("totals = %+v", r.Totals)
	}
	if len(r.ExpenseByCategory) != 1 || r.ExpenseByCategory[0].Name != "Food" || r.ExpenseByCategory[0].ShareBP != 10000 {
		t.Errorf("expense by category = %+v", r.ExpenseByCategory)
	}

	_, err = svc.Range(ctx, "u1", core.NewDate(2025, 3, 31), core.NewDate(2025, 3, 1))
	if !errors.Is(err, core.ErrInvalidRange) {
		t.Errorf("inverted range err = %v", err)
	}
}

func TestReportService_CacheAndInvalidate(t *testing.T) {
	repo := seedReportData(t)
	svc := newReportService(repo)
	ctx := context.Background()

	first, err := svc.Monthly(ctx, "u1")
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if _, err := svc.Monthly(ctx, "u2"); err != nil {
		t.Fatalf("Monthly u2: %v", err)
	}

	seedTx(t, repo, "u1", "f4", "food", core.Expense, 1000, core.NewDate(2025, 4, 2))

	cachedReport, err := svc.Monthly(ctx, "u1")
	if err != nil {
		t.Fatalf("Monthly cached: %v", err)
	}
	if len(cachedReport) != len(first) {
		t.Fatalf("expected cached report before invalidation, got %d buckets", len(cachedReport))
	}

	svc.Invalidate("u1")
	fresh, err := svc.Monthly(ctx, "u1")
	if err != nil {
		t.Fatalf("Monthly fresh: %v", err)
	}
	if len(fresh) != 3 {
		t.Errorf("fresh report buckets = %d, want 3", len(fresh))
	}
	if size := svc.cache.Size(); size != 2 {
		t.Errorf("cache size = %d, want 2 (u1 rebuilt, u2 untouched)", size)
	}
}

// writeDuringList simulates a transaction write that commits while a report
// is being built from an older read.
type writeDuringList struct {
	*storage.SQLiteRepository
	onList func()
}

func (w *writeDuringList) ListTransactions(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error) {
	txs, err := w.SQLiteRepository.ListTransactions(ctx, userID, f)
	if hook := w.onList; hook != nil {
		w.onList = nil
		hook()
	}
	return txs, err
}

func TestReportService_InvalidateDuringBuild(t *testing.T) {
	repo := seedReportData(t)
	store := &writeDuringList{SQLiteRepository: repo}
	svc := NewReportService(store, cache.NewLRUCache[any](100, time.Hour), 0)
	svc.now = func() time.Time { return reportNow }
	ctx := context.Background()

	store.onList = func() {
		seedTx(t, repo, "u1", "f4", "food", core.Expense, 1000, core.NewDate(2025, 4, 2))
		svc.Invalidate("u1")
	}

	stale, err := svc.Monthly(ctx, "u1")
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(stale) != 2 {
		t.Fatalf("first build should see the old data, got %d buckets", len(stale))
	}
	if size := svc.cache.Size(); size != 0 {
		t.Fatalf("stale build must not be cached, cache size = %d", size)
	}

	fresh, err := svc.Monthly(ctx, "u1")
	if err != nil {
		t.Fatalf("Monthly fresh: %v", err)
	}
	if len(fresh) != 3 {
		t.Errorf("fresh report buckets = %d, want 3", len(fresh))
	}
	if size := svc.cache.Size(); size != 1 {
		t.Errorf("cache size = %d, want 1", size)
	}
}

func TestReportService_NoCache(t *testing.T) {
	svc := NewReportService(seedReportData(t), nil, 0)
	svc.now = func() time.Time { return reportNow }
	svc.Invalidate("u1")
	if _, err := svc.Summary(context.Background(), "u1"); err != nil {
		t.Fatalf("Summary without cache: %v", err)
	}
}
