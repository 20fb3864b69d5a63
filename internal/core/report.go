package core

import (
	"fmt"
	"sort"
	"time"
)

// Granularity selects the time bucket used to group transactions.
type Granularity string

const (
	ByMonth Granularity = "monthly"
	ByWeek  Granularity = "weekly"
)

// DefaultReportWeeks is the number of ISO weeks covered by the weekly report.
const DefaultReportWeeks = 6

// UncategorizedName labels transactions whose category is unknown.
const UncategorizedName = "Uncategorized"

type (
	// DateRange is inclusive on both ends at day granularity.
	DateRange struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}

	Totals struct {
		Income  Money `json:"totalIncome"`
		Expense Money `json:"totalExpense"`
		Net     Money `json:"net"`
		Count   int   `json:"count"`
	}

	Bucket struct {
		Key   string `json:"key"`
		Label string `json:"label"`
		Start Date   `json:"start"`
		End   Date   `json:"end"`
	}

	PeriodTotals struct {
		Bucket
		Income  Money `json:"income"`
		Expense Money `json:"expenses"`
		Net     Money `json:"net"`
		Count   int   `json:"count"`
	}

	CategoryTotal struct {
		CategoryID string `json:"categoryId,omitempty"`
		Name       string `json:"name"`
		Amount     Money  `json:"amount"`
		Count      int    `json:"count"`
		// ShareBP is the share of the type total in basis points (1/100 of a percent).
		ShareBP int64 `json:"shareBasisPoints"`
	}

	RangeReport struct {
		Range             DateRange       `json:"range"`
		Totals            Totals          `json:"totals"`
		ExpenseByCategory []CategoryTotal `json:"expenseByCategory"`
		IncomeByCategory  []CategoryTotal `json:"incomeByCategory"`
		Monthly           []PeriodTotals  `json:"monthly"`
		Weekly            []PeriodTotals  `json:"weekly"`
	}
)

// NewDateRange validates that start does not come after end.
func NewDateRange(start, end Date) (DateRange, error) {
	if start.IsEmpty() || end.IsEmpty() {
		return DateRange{}, ErrInvalidDate
	}
	if start.After(end.Time) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: start, End: end}, nil
}

func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start.Time) && !d.After(r.End.Time)
}

// FilterByRange returns the transactions dated within r, preserving order.
func FilterByRange(txs []Transaction, r DateRange) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

func ComputeTotals(txs []Transaction) Totals {
	var tot Totals
	for _, t := range txs {
		switch t.Type {
		case Income:
			tot.Income = tot.Income.Add(t.Amount)
		case Expense:
			tot.Expense = tot.Expense.Add(t.Amount)
		default:
			continue
		}
		tot.Count++
	}
	tot.Net = tot.Income.Sub(tot.Expense)
	return tot
}

// BucketFor returns the month or ISO week containing d.
// Weekly keys use the ISO year, so 2024-12-30 falls in 2025-W01.
func BucketFor(d Date, g Granularity) Bucket {
	if g == ByWeek {
		monday := StartOfISOWeek(d)
		year, week := d.ISOWeek()
		return Bucket{
			Key:   fmt.Sprintf("%04d-W%02d", year, week),
			Label: fmt.Sprintf("W%d %d", week, year),
			Start: monday,
			End:   Date{Time: monday.AddDate(0, 0, 6)},
		}
	}
	first := NewDate(d.Year(), int(d.Month()), 1)
	return Bucket{
		Key:   d.Format("2006-01"),
		Label: d.Format("Jan 2006"),
		Start: first,
		End:   Date{Time: first.AddDate(0, 1, -1)},
	}
}

// StartOfISOWeek returns the Monday of d's ISO week.
func StartOfISOWeek(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return Date{Time: d.AddDate(0, 0, -offset)}
}

// GroupByPeriod sums income and expense per bucket, sorted by key.
func GroupByPeriod(txs []Transaction, g Granularity) []PeriodTotals {
	byKey := make(map[string]*PeriodTotals)
	for _, t := range txs {
		if !t.Type.Valid() {
			continue
		}
		b := BucketFor(t.Date, g)
		pt, ok := byKey[b.Key]
		if !ok {
			pt = &PeriodTotals{Bucket: b}
			byKey[b.Key] = pt
		}
		pt.add(t)
	}
	out := make([]PeriodTotals, 0, len(byKey))
	for _, pt := range byKey {
		pt.Net = pt.Income.Sub(pt.Expense)
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (pt *PeriodTotals) add(t Transaction) {
	if t.Type == Income {
		pt.Income = pt.Income.Add(t.Amount)
	} else {
		pt.Expense = pt.Expense.Add(t.Amount)
	}
	pt.Count++
}

// GroupByCategory sums transactions of type typ per category.
// names maps category IDs to display names; unknown IDs collapse into a
// single Uncategorized row. Rows are ordered by amount descending, then name.
func GroupByCategory(txs []Transaction, names map[string]string, typ TxType) []CategoryTotal {
	byID := make(map[string]*CategoryTotal)
	var total Money
	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		id := t.CategoryID
		name, ok := names[id]
		if !ok || name == "" {
			id, name = "", UncategorizedName
		}
		ct, ok := byID[id]
		if !ok {
			ct = &CategoryTotal{CategoryID: id, Name: name}
			byID[id] = ct
		}
		ct.Amount = ct.Amount.Add(t.Amount)
		ct.Count++
		total = total.Add(t.Amount)
	}
	out := make([]CategoryTotal, 0, len(byID))
	for _, ct := range byID {
		if total.Cents > 0 {
			ct.ShareBP = scaledRatio(ct.Amount, total, 10000)
		}
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

// MonthlyReport returns every month with activity.
func MonthlyReport(txs []Transaction) []PeriodTotals {
	return GroupByPeriod(txs, ByMonth)
}

// WeeklyRange returns the window covered by the weekly report: from the
// Monday weeks-1 weeks before now's ISO week through now.
func WeeklyRange(now time.Time, weeks int) DateRange {
	if weeks <= 0 {
		weeks = DefaultReportWeeks
	}
	today := DateOf(now)
	start := StartOfISOWeek(today).AddDate(0, 0, -7*(weeks-1))
	return DateRange{Start: Date{Time: start}, End: today}
}

// WeeklyReport returns exactly weeks buckets ending with now's ISO week.
// Weeks without transactions are present with zero totals.
func WeeklyReport(txs []Transaction, now time.Time, weeks int) []PeriodTotals {
	r := WeeklyRange(now, weeks)
	grouped := GroupByPeriod(FilterByRange(txs, r), ByWeek)
	byKey := make(map[string]PeriodTotals, len(grouped))
	for _, pt := range grouped {
		byKey[pt.Key] = pt
	}
	var out []PeriodTotals
	for d := r.Start; !d.After(r.End.Time); d = (Date{Time: d.AddDate(0, 0, 7)}) {
		b := BucketFor(d, ByWeek)
		if pt, ok := byKey[b.Key]; ok {
			out = append(out, pt)
			continue
		}
		out = append(out, PeriodTotals{Bucket: b})
	}
	return out
}

// BuildRangeReport aggregates the transactions dated within r.
// An empty range yields zero totals and empty groupings.
func BuildRangeReport(txs []Transaction, r DateRange, names map[string]string) RangeReport {
	in := FilterByRange(txs, r)
	return RangeReport{
		Range:             r,
		Totals:            ComputeTotals(in),
		ExpenseByCategory: GroupByCategory(in, names, Expense),
		IncomeByCategory:  GroupByCategory(in, names, Income),
		Monthly:           GroupByPeriod(in, ByMonth),
		Weekly:            GroupByPeriod(in, ByWeek),
	}
}
