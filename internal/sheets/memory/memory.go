// Package memory is an in-process ledger used when Google Sheets is not configured.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"financetrack/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []sheets.LedgerRow
}

var _ sheets.Ledger = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Upsert stores the row and returns a synthetic row reference.
func (s *Store) Upsert(_ context.Context, row sheets.LedgerRow) (string, error) {
	if row.TransactionID == "" {
		return "", errors.New("ledger row without transaction id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].TransactionID == row.TransactionID {
			s.items[i] = row
			return fmt.Sprintf("mem:%d", i+1), nil
		}
	}
	s.items = append(s.items, row)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

func (s *Store) Delete(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].TransactionID == transactionID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) List(_ context.Context) ([]sheets.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.LedgerRow(nil), s.items...), nil
}

// Get returns the row of a transaction.
func (s *Store) Get(transactionID string) (sheets.LedgerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.TransactionID == transactionID {
			return r, nil
		}
	}
	return sheets.LedgerRow{}, sheets.ErrRowNotFound
}
