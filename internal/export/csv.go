package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// WriteCSV writes the bundle as consecutive titled sections separated by a blank line.
func WriteCSV(w io.Writer, b Bundle) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{SectionSummary},
		{"Metric", "Value"},
	}
	for _, r := range summaryRows(b) {
		records = append(records, []string{r[0].(string), fmt.Sprint(r[1])})
	}

	records = append(records, nil, []string{SectionByCategory}, []string{"Category", "Amount"})
	for _, c := range b.ExpensesByCategory {
		records = append(records, []string{safeCell(c.Name), c.Amount.String()})
	}

	records = append(records, nil, []string{SectionTransactions}, []string{"Category", "Type", "Description", "Date", "Amount"})
	for _, t := range b.Transactions {
		records = append(records, []string{safeCell(t.Category), string(t.Type), safeCell(t.Description), t.Date.String(), t.Amount.String()})
	}

	records = append(records, nil, []string{SectionTrend}, []string{"Period", "Income", "Expenses", "Net"})
	for _, p := range b.Trend {
		records = append(records, []string{p.Label, p.Income.String(), p.Expense.String(), p.Net.String()})
	}

	for _, rec := range records {
		if rec == nil {
			rec = []string{""}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// safeCell quotes user text that a spreadsheet would evaluate as a formula.
func safeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
