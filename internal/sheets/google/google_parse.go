package google

import (
	"fmt"
	"strconv"
	"strings"

	"financetrack/internal/core"
	"financetrack/internal/sheets"
)

// Ledger columns A..H.
var ledgerHeader = []any{"ID", "User", "Date", "Type", "Category", "Description", "Amount", "Version"}

const (
	colID = iota
	colUser
	colDate
	colType
	colCategory
	colDescription
	colAmount
	colVersion
	numCols
)

func encodeRow(r sheets.LedgerRow) []any {
	return []any{
		r.TransactionID,
		r.UserID,
		r.Date.String(),
		string(r.Type),
		r.Category,
		r.Description,
		r.Amount.Float(),
		r.Version,
	}
}

// decodeRow parses one values row. Amounts may arrive as numbers or as
// formatted strings with a decimal comma.
func decodeRow(row []any) (sheets.LedgerRow, error) {
	cols := toStrings(row)
	if len(cols) < numCols {
		return sheets.LedgerRow{}, fmt.Errorf("short row: %d columns", len(cols))
	}
	if cols[colID] == "" {
		return sheets.LedgerRow{}, fmt.Errorf("row without id")
	}
	date, err := core.ParseDate(cols[colDate])
	if err != nil {
		return sheets.LedgerRow{}, err
	}
	amount, err := core.ParseMoney(cols[colAmount])
	if err != nil {
		return sheets.LedgerRow{}, fmt.Errorf("amount %q: %w", cols[colAmount], err)
	}
	version, err := strconv.ParseInt(cols[colVersion], 10, 64)
	if err != nil {
		return sheets.LedgerRow{}, fmt.Errorf("version %q: %w", cols[colVersion], err)
	}
	return sheets.LedgerRow{
		TransactionID: cols[colID],
		UserID:        cols[colUser],
		Date:          date,
		Type:          core.TxType(cols[colType]),
		Category:      cols[colCategory],
		Description:   cols[colDescription],
		Amount:        amount,
		Version:       version,
	}, nil
}

// indexRows maps the ids in column A to their 1-based sheet rows.
// The header and blank rows are skipped; a duplicated id keeps its first row.
func indexRows(values [][]any) map[string]int {
	rows := make(map[string]int, len(values))
	for i, row := range values {
		if len(row) == 0 || (i == 0 && isHeader(row)) {
			continue
		}
		id := strings.TrimSpace(fmt.Sprint(row[0]))
		if _, seen := rows[id]; id == "" || seen {
			continue
		}
		rows[id] = i + 1
	}
	return rows
}

func isHeader(row []any) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(fmt.Sprint(row[0])), "id")
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
