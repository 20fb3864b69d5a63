// This file implements the Strategy Pattern for budget spending windows.
// Each budget period (daily, weekly, monthly) has its own strategy that
// computes the window containing a given day.

package services

import (
	"fmt"
	"time"

	"financetrack/internal/core"
)

// PeriodStrategy computes the spending window of a budget period that contains a day.
type PeriodStrategy interface {
	Window(day core.Date) core.DateRange
}

// DailyPeriod is the calendar day.
type DailyPeriod struct{}

func (DailyPeriod) Window(day core.Date) core.DateRange {
	return core.DateRange{Start: day, End: day}
}

// WeeklyPeriod is the ISO week, Monday through Sunday.
type WeeklyPeriod struct{}

func (WeeklyPeriod) Window(day core.Date) core.DateRange {
	monday := core.StartOfISOWeek(day)
	return core.DateRange{Start: monday, End: core.Date{Time: monday.AddDate(0, 0, 6)}}
}

// MonthlyPeriod is the calendar month.
type MonthlyPeriod struct{}

func (MonthlyPeriod) Window(day core.Date) core.DateRange {
	first := core.NewDate(day.Year(), int(day.Month()), 1)
	return core.DateRange{Start: first, End: core.Date{Time: first.AddDate(0, 1, -1)}}
}

// periodStrategies maps budget periods to their window strategy.
var periodStrategies = map[core.BudgetPeriod]PeriodStrategy{
	core.Daily:   DailyPeriod{},
	core.Weekly:  WeeklyPeriod{},
	core.Monthly: MonthlyPeriod{},
}

// GetPeriodStrategy returns the strategy for a budget period.
func GetPeriodStrategy(period core.BudgetPeriod) (PeriodStrategy, error) {
	s, ok := periodStrategies[period]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidPeriod, period)
	}
	return s, nil
}

// BudgetWindow returns the active window of b at now, clipped to the budget's
// start and end dates. A budget that has not started yet uses its first
// window; one that has ended keeps its last window.
func BudgetWindow(b core.Budget, now time.Time) (core.DateRange, error) {
	s, err := GetPeriodStrategy(b.Period)
	if err != nil {
		return core.DateRange{}, err
	}

	day := core.DateOf(now)
	if !b.StartDate.IsEmpty() && day.Before(b.StartDate.Time) {
		day = b.StartDate
	}
	if !b.EndDate.IsEmpty() && day.After(b.EndDate.Time) {
		day = b.EndDate
	}

	w := s.Window(day)
	if !b.StartDate.IsEmpty() && w.Start.Before(b.StartDate.Time) {
		w.Start = b.StartDate
	}
	if !b.EndDate.IsEmpty() && w.End.After(b.EndDate.Time) {
		w.End = b.EndDate
	}
	return w, nil
}

// WindowAt adapts BudgetWindow to core.WindowFunc.
func WindowAt(now time.Time) core.WindowFunc {
	return func(b core.Budget) (core.DateRange, error) {
		return BudgetWindow(b, now)
	}
}
