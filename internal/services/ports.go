// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"errors"

	"financetrack/internal/core"
	"financetrack/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("all fields are required")
	ErrPasswordsDiffer    = errors.New("passwords do not match")
	ErrUnknownCategory    = errors.New("category does not exist")
)

// IsInputError reports whether err was caused by rejected client input.
func IsInputError(err error) bool {
	return core.IsValidationError(err) ||
		errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrPasswordsDiffer) ||
		errors.Is(err, ErrUnknownCategory)
}

// Storage ports, satisfied by *storage.SQLiteRepository.
type (
	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		GetUserByID(ctx context.Context, id string) (core.User, error)
		GetUserByEmail(ctx context.Context, email string) (core.User, error)
		ListUsers(ctx context.Context) ([]core.User, error)
	}

	CategoryStore interface {
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		GetCategory(ctx context.Context, userID, id string) (core.Category, error)
		ListCategories(ctx context.Context, userID string) ([]core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, userID, id string) error
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
		ListTransactions(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id string) error
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		GetBudget(ctx context.Context, userID, id string) (core.Budget, error)
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, userID, id string) error
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		GetGoal(ctx context.Context, userID, id string) (core.Goal, error)
		ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) error
		DeleteGoal(ctx context.Context, userID, id string) error
	}

	// Publisher announces transaction changes to the sync worker.
	Publisher interface {
		PublishSync(ctx context.Context, id string, version int64) error
		PublishDelete(ctx context.Context, id, userID string) error
	}

	// Invalidator drops cached reports of a user after a write.
	Invalidator interface {
		Invalidate(userID string)
	}
)

var (
	_ UserStore        = (*storage.SQLiteRepository)(nil)
	_ CategoryStore    = (*storage.SQLiteRepository)(nil)
	_ TransactionStore = (*storage.SQLiteRepository)(nil)
	_ BudgetStore      = (*storage.SQLiteRepository)(nil)
	_ GoalStore        = (*storage.SQLiteRepository)(nil)
)

// requireCategory checks that id names a category owned by userID.
func requireCategory(ctx context.Context, store CategoryStore, userID, id string) (core.Category, error) {
	c, err := store.GetCategory(ctx, userID, id)
	if errors.Is(err, core.ErrNotFound) {
		return core.Category{}, ErrUnknownCategory
	}
	return c, err
}

func invalidate(inv Invalidator, userID string) {
	if inv != nil {
		inv.Invalidate(userID)
	}
}
