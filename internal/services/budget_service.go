package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"financetrack/internal/core"
)

type (
	BudgetInput struct {
		CategoryID string            `json:"categoryId"`
		Amount     core.Money        `json:"amount"`
		Spent      core.Money        `json:"spent"`
		Period     core.BudgetPeriod `json:"period"`
		StartDate  core.Date         `json:"startDate"`
		EndDate    core.Date         `json:"endDate"`
	}

	BudgetPatch struct {
		CategoryID *string            `json:"categoryId"`
		Amount     *core.Money        `json:"amount"`
		Spent      *core.Money        `json:"spent"`
		Period     *core.BudgetPeriod `json:"period"`
		StartDate  *core.Date         `json:"startDate"`
		EndDate    *core.Date         `json:"endDate"`
	}
)

type BudgetService struct {
	store      BudgetStore
	categories CategoryStore
	inv        Invalidator
	now        func() time.Time
}

func NewBudgetService(store BudgetStore, categories CategoryStore, inv Invalidator) *BudgetService {
	return &BudgetService{store: store, categories: categories, inv: inv, now: time.Now}
}

// Create stores a budget. The period defaults to monthly and the start date to today.
func (s *BudgetService) Create(ctx context.Context, userID string, in BudgetInput) (core.Budget, error) {
	if strings.TrimSpace(in.CategoryID) == "" || in.Amount.IsZero() {
		return core.Budget{}, ErrMissingFields
	}
	b := core.Budget{
		ID:         uuid.NewString(),
		UserID:     userID,
		CategoryID: strings.TrimSpace(in.CategoryID),
		Amount:     in.Amount,
		Spent:      in.Spent,
		Period:     in.Period,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
	}
	if b.Period == "" {
		b.Period = core.Monthly
	}
	if b.StartDate.IsEmpty() {
		b.StartDate = core.DateOf(s.now().UTC())
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if _, err := requireCategory(ctx, s.categories, userID, b.CategoryID); err != nil {
		return core.Budget{}, err
	}
	b.Recompute()

	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}
	invalidate(s.inv, userID)
	return created, nil
}

func (s *BudgetService) List(ctx context.Context, userID string) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx, userID)
}

func (s *BudgetService) Get(ctx context.Context, userID, id string) (core.Budget, error) {
	return s.store.GetBudget(ctx, userID, id)
}

// Update applies the provided fields and recomputes the remaining amount.
func (s *BudgetService) Update(ctx context.Context, userID, id string, p BudgetPatch) (core.Budget, error) {
	b, err := s.store.GetBudget(ctx, userID, id)
	if err != nil {
		return core.Budget{}, err
	}
	if p.CategoryID != nil {
		b.CategoryID = strings.TrimSpace(*p.CategoryID)
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Spent != nil {
		b.Spent = *p.Spent
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if p.CategoryID != nil {
		if _, err := requireCategory(ctx, s.categories, userID, b.CategoryID); err != nil {
			return core.Budget{}, err
		}
	}
	b.Recompute()

	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return core.Budget{}, err
	}
	invalidate(s.inv, userID)
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteBudget(ctx, userID, id); err != nil {
		return err
	}
	invalidate(s.inv, userID)
	return nil
}
