package core

import "time"

const (
	StatusOverBudget = "over budget"
	StatusOnTrack    = "on track"
)

// UnknownCategoryName labels budgets whose category no longer exists.
const UnknownCategoryName = "Unknown"

type (
	BudgetUsage struct {
		BudgetID    string       `json:"budgetId"`
		Category    string       `json:"category"`
		Period      BudgetPeriod `json:"period"`
		WindowStart Date         `json:"windowStart"`
		WindowEnd   Date         `json:"windowEnd"`
		Limit       Money        `json:"limit"`
		Spent       Money        `json:"spent"`
		Remaining   Money        `json:"remaining"`
		Status      string       `json:"status"`
	}

	GoalProgress struct {
		GoalID    string     `json:"goalId"`
		Title     string     `json:"title"`
		Target    Money      `json:"target"`
		Current   Money      `json:"current"`
		Remaining Money      `json:"remaining"`
		Percent   int        `json:"percent"`
		Deadline  Date       `json:"deadline"`
		Status    GoalStatus `json:"status"`
	}

	Summary struct {
		TotalIncome   Money          `json:"totalIncome"`
		TotalExpenses Money          `json:"totalExpenses"`
		NetBalance    Money          `json:"netBalance"`
		BudgetUsage   []BudgetUsage  `json:"budgetUsage"`
		GoalsProgress []GoalProgress `json:"goalsProgress"`
		GeneratedAt   time.Time      `json:"generatedAt"`
	}

	// WindowFunc resolves the active spending window of a budget.
	WindowFunc func(b Budget) (DateRange, error)
)

// BudgetSpent sums expense transactions in the budget's category dated within window.
func BudgetSpent(txs []Transaction, b Budget, window DateRange) Money {
	var spent Money
	for _, t := range txs {
		if t.Type != Expense || t.CategoryID != b.CategoryID {
			continue
		}
		if window.Contains(t.Date) {
			spent = spent.Add(t.Amount)
		}
	}
	return spent
}

// Usage evaluates one budget against the transactions in its window.
func Usage(txs []Transaction, b Budget, window DateRange, categoryName string) BudgetUsage {
	if categoryName == "" {
		categoryName = UnknownCategoryName
	}
	spent := BudgetSpent(txs, b, window)
	status := StatusOnTrack
	if spent.Cents > b.Amount.Cents {
		status = StatusOverBudget
	}
	return BudgetUsage{
		BudgetID:    b.ID,
		Category:    categoryName,
		Period:      b.Period,
		WindowStart: window.Start,
		WindowEnd:   window.End,
		Limit:       b.Amount,
		Spent:       spent,
		Remaining:   b.Amount.Sub(spent),
		Status:      status,
	}
}

// Progress reports how far a goal is from its target. Remaining never drops
// below zero and Percent is capped at 100.
func Progress(g Goal) GoalProgress {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.Cents < 0 {
		remaining = Money{}
	}
	percent := 0
	if g.TargetAmount.Cents > 0 {
		percent = int(scaledRatio(g.CurrentAmount, g.TargetAmount, 100))
	}
	if percent > 100 {
		percent = 100
	}
	return GoalProgress{
		GoalID:    g.ID,
		Title:     g.Title,
		Target:    g.TargetAmount,
		Current:   g.CurrentAmount,
		Remaining: remaining,
		Percent:   percent,
		Deadline:  g.Deadline,
		Status:    g.Status,
	}
}

// BuildSummary combines overall totals with per-budget usage and goal progress.
// Budgets whose window cannot be resolved are skipped.
func BuildSummary(txs []Transaction, budgets []Budget, goals []Goal, names map[string]string, window WindowFunc, now time.Time) Summary {
	totals := ComputeTotals(txs)
	s := Summary{
		TotalIncome:   totals.Income,
		TotalExpenses: totals.Expense,
		NetBalance:    totals.Net,
		BudgetUsage:   make([]BudgetUsage, 0, len(budgets)),
		GoalsProgress: make([]GoalProgress, 0, len(goals)),
		GeneratedAt:   now,
	}
	for _, b := range budgets {
		w, err := window(b)
		if err != nil {
			continue
		}
		s.BudgetUsage = append(s.BudgetUsage, Usage(txs, b, w, names[b.CategoryID]))
	}
	for _, g := range goals {
		s.GoalsProgress = append(s.GoalsProgress, Progress(g))
	}
	return s
}
