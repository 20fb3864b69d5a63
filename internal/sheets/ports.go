// Package sheets defines the ports for mirroring transactions to a spreadsheet ledger.
package sheets

import (
	"context"
	"errors"

	"financetrack/internal/core"
)

// ErrRowNotFound is returned when the ledger holds no row for a transaction.
var ErrRowNotFound = errors.New("ledger row not found")

// LedgerRow is one transaction as it appears in the ledger sheet.
type LedgerRow struct {
	TransactionID string
	UserID        string
	Date          core.Date
	Type          core.TxType
	Category      string
	Description   string
	Amount        core.Money
	Version       int64
}

// Ports for outbound adapters.
type (
	LedgerWriter interface {
		// Upsert writes row, replacing the existing row for the same transaction.
		Upsert(ctx context.Context, row LedgerRow) (rowRef string, err error)
		// Delete removes the row of a transaction. Missing rows are not an error.
		Delete(ctx context.Context, transactionID string) error
	}

	LedgerReader interface {
		List(ctx context.Context) ([]LedgerRow, error)
	}

	Ledger interface {
		LedgerWriter
		LedgerReader
	}
)

// RowFrom builds the ledger row for t. categoryName may be empty.
func RowFrom(t core.Transaction, categoryName string) LedgerRow {
	if categoryName == "" {
		categoryName = core.UncategorizedName
	}
	return LedgerRow{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Date:          t.Date,
		Type:          t.Type,
		Category:      categoryName,
		Description:   t.Description,
		Amount:        t.Amount,
		Version:       t.Version,
	}
}
