package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	colorHeader = "#2D3436"
	numFmtMoney = 4 // #,##0.00
)

type styles struct {
	title, header, money int
}

// WriteXLSX writes one worksheet per section.
func WriteXLSX(w io.Writer, b Bundle) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SectionSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummary(f, st, b); err != nil {
		return err
	}

	byCategory := make([][]any, 0, len(b.ExpensesByCategory))
	for _, c := range b.ExpensesByCategory {
		byCategory = append(byCategory, []any{c.Name, c.Amount.Float()})
	}
	if err := writeTable(f, st, SectionByCategory, []string{"Category", "Amount"}, byCategory, []int{1}); err != nil {
		return err
	}

	txRows := make([][]any, 0, len(b.Transactions))
	for _, t := range b.Transactions {
		txRows = append(txRows, []any{t.Category, string(t.Type), t.Description, t.Date.String(), t.Amount.Float()})
	}
	if err := writeTable(f, st, SectionTransactions, []string{"Category", "Type", "Description", "Date", "Amount"}, txRows, []int{4}); err != nil {
		return err
	}

	trend := make([][]any, 0, len(b.Trend))
	for _, p := range b.Trend {
		trend = append(trend, []any{p.Label, p.Income.Float(), p.Expense.Float(), p.Net.Float()})
	}
	// sheet names are capped at 31 characters
	if err := writeTable(f, st, "Trend", []string{"Period", "Income", "Expenses", "Net"}, trend, []int{1, 2, 3}); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		st  styles
		err error
	)
	st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return st, fmt.Errorf("title style: %w", err)
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return st, fmt.Errorf("header style: %w", err)
	}
	st.money, err = f.NewStyle(&excelize.Style{
		NumFmt:    numFmtMoney,
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return st, fmt.Errorf("money style: %w", err)
	}
	return st, nil
}

func writeSummary(f *excelize.File, st styles, b Bundle) error {
	sheet := SectionSummary
	cells := []struct {
		cell  string
		value any
	}{
		{"A1", "Financial Report"},
		{"A2", fmt.Sprintf("%s to %s", b.Range.Start, b.Range.End)},
		{"A4", "Metric"},
		{"B4", "Value"},
	}
	for _, c := range cells {
		if err := f.SetCellValue(sheet, c.cell, c.value); err != nil {
			return fmt.Errorf("summary %s: %w", c.cell, err)
		}
	}
	for i, r := range summaryRows(b) {
		row := 5 + i
		value := r[1]
		if m, ok := value.(interface{ Float() float64 }); ok {
			value = m.Float()
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), value); err != nil {
			return err
		}
	}
	f.SetCellStyle(sheet, "A1", "A1", st.title)
	f.SetCellStyle(sheet, "A4", "B4", st.header)
	f.SetCellStyle(sheet, "B5", "B7", st.money)
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 16)
	return nil
}

// writeTable creates sheet with a header row followed by rows. Columns listed
// in moneyCols (0-based) get the money number format.
func writeTable(f *excelize.File, st styles, sheet string, header []string, rows [][]any, moneyCols []int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	f.SetCellStyle(sheet, "A1", last, st.header)

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s %s: %w", sheet, cell, err)
			}
		}
	}
	if len(rows) > 0 {
		for _, c := range moneyCols {
			top, _ := excelize.CoordinatesToCellName(c+1, 2)
			bottom, _ := excelize.CoordinatesToCellName(c+1, len(rows)+1)
			f.SetCellStyle(sheet, top, bottom, st.money)
		}
	}

	first, _ := excelize.ColumnNumberToName(1)
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	f.SetColWidth(sheet, first, lastCol, 18)
	return nil
}
