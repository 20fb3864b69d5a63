package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"financetrack/internal/core"
	"financetrack/internal/log"
	"financetrack/internal/storage"
)

type (
	TransactionInput struct {
		Type        core.TxType `json:"type"`
		CategoryID  string      `json:"categoryId"`
		Amount      core.Money  `json:"amount"`
		Description string      `json:"description"`
		Date        core.Date   `json:"date"`
	}

	TransactionPatch struct {
		Type        *core.TxType `json:"type"`
		CategoryID  *string      `json:"categoryId"`
		Amount      *core.Money  `json:"amount"`
		Description *string      `json:"description"`
		Date        *core.Date   `json:"date"`
	}
)

// TransactionService orchestrates transaction writes across SQLite and AMQP.
type TransactionService struct {
	store      TransactionStore
	categories CategoryStore
	publisher  Publisher
	inv        Invalidator
	events     *log.StructuredLogger
	now        func() time.Time
}

// NewTransactionService wires the service. publisher may be nil when AMQP is not configured.
func NewTransactionService(store TransactionStore, categories CategoryStore, publisher Publisher, inv Invalidator, logger *log.Logger) *TransactionService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &TransactionService{
		store:      store,
		categories: categories,
		publisher:  publisher,
		inv:        inv,
		events:     log.NewStructuredLogger(logger.WithComponent(log.ComponentTransaction)),
		now:        time.Now,
	}
}

// Create saves a transaction locally and publishes a sync message.
// A missing date defaults to today.
func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (core.Transaction, error) {
	if in.Type == "" || strings.TrimSpace(in.CategoryID) == "" || in.Amount.IsZero() {
		return core.Transaction{}, ErrMissingFields
	}
	if in.Date.IsEmpty() {
		in.Date = core.DateOf(s.now().UTC())
	}
	t := core.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        in.Type,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, err := requireCategory(ctx, s.categories, userID, t.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	s.events.LogTransactionCreated(ctx, userID, created.ID, string(created.Type), created.Amount.Cents, created.CategoryID)

	s.publishSync(ctx, created)
	invalidate(s.inv, userID)
	return created, nil
}

func (s *TransactionService) List(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, core.ErrInvalidType
	}
	if !f.Start.IsEmpty() && !f.End.IsEmpty() && f.Start.After(f.End.Time) {
		return nil, core.ErrInvalidRange
	}
	return s.store.ListTransactions(ctx, userID, f)
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, userID, id)
}

// Update applies the provided fields and bumps the version.
func (s *TransactionService) Update(ctx context.Context, userID, id string, p TransactionPatch) (core.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.CategoryID != nil {
		t.CategoryID = strings.TrimSpace(*p.CategoryID)
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if p.CategoryID != nil {
		if _, err := requireCategory(ctx, s.categories, userID, t.CategoryID); err != nil {
			return core.Transaction{}, err
		}
	}

	updated, err := s.store.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publishSync(ctx, updated)
	invalidate(s.inv, userID)
	return updated, nil
}

// Delete removes a transaction locally and publishes a delete message.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishDelete(ctx, id, userID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete message", "transaction_id", id, "error", err)
		}
	}
	invalidate(s.inv, userID)
	return nil
}

// publishSync never fails the request: the worker's pending sweep picks up
// anything whose message was lost.
func (s *TransactionService) publishSync(ctx context.Context, t core.Transaction) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping sync message", "transaction_id", t.ID)
		return
	}
	if err := s.publisher.PublishSync(ctx, t.ID, t.Version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transaction_id", t.ID, "version", t.Version, "error", err)
	}
}
