// Package export renders a user's transactions and report aggregates as CSV or XLSX.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"financetrack/internal/core"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Section titles shared by both renderers.
const (
	SectionSummary      = "Summary"
	SectionByCategory   = "Expenses by Category"
	SectionTransactions = "Transactions"
	SectionTrend        = "Income vs Expenses Over Time"
)

type (
	// Row is one exported transaction.
	Row struct {
		Category    string
		Type        core.TxType
		Description string
		Date        core.Date
		Amount      core.Money
	}

	// Bundle is everything one export contains.
	Bundle struct {
		GeneratedAt        time.Time
		Range              core.DateRange
		Totals             core.Totals
		ExpensesByCategory []core.CategoryTotal
		Transactions       []Row
		Trend              []core.PeriodTotals
	}
)

// ParseFormat accepts "csv" or "xlsx" in any case. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename names the download after the covered range.
func (f Format) Filename(r core.DateRange) string {
	return fmt.Sprintf("financetrack_%s_%s.%s", r.Start.String(), r.End.String(), f)
}

// NewBundle aggregates the transactions dated within r. Transactions are
// listed newest first; the trend is grouped by month.
func NewBundle(txs []core.Transaction, names map[string]string, r core.DateRange, now time.Time) Bundle {
	in := core.FilterByRange(txs, r)

	rows := make([]Row, 0, len(in))
	for _, t := range in {
		name := names[t.CategoryID]
		if name == "" {
			name = core.UncategorizedName
		}
		rows = append(rows, Row{
			Category:    name,
			Type:        t.Type,
			Description: t.Description,
			Date:        t.Date,
			Amount:      t.Amount,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date.Time) })

	return Bundle{
		GeneratedAt:        now,
		Range:              r,
		Totals:             core.ComputeTotals(in),
		ExpensesByCategory: core.GroupByCategory(in, names, core.Expense),
		Transactions:       rows,
		Trend:              core.MonthlyReport(in),
	}
}

// Write renders b in format f.
func Write(w io.Writer, f Format, b Bundle) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, b)
	case FormatXLSX:
		return WriteXLSX(w, b)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func summaryRows(b Bundle) [][2]any {
	return [][2]any{
		{"Total Income", b.Totals.Income},
		{"Total Expenses", b.Totals.Expense},
		{"Net Savings", b.Totals.Net},
		{"Transactions Count", b.Totals.Count},
	}
}
