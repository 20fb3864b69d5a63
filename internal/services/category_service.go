package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"financetrack/internal/core"
)

type (
	CategoryInput struct {
		Name  string      `json:"name"`
		Type  core.TxType `json:"type"`
		Color string      `json:"color"`
	}

	CategoryPatch struct {
		Name  *string      `json:"name"`
		Type  *core.TxType `json:"type"`
		Color *string      `json:"color"`
	}
)

type CategoryService struct {
	store CategoryStore
	inv   Invalidator
}

func NewCategoryService(store CategoryStore, inv Invalidator) *CategoryService {
	return &CategoryService{store: store, inv: inv}
}

func (s *CategoryService) Create(ctx context.Context, userID string, in CategoryInput) (core.Category, error) {
	if strings.TrimSpace(in.Name) == "" || in.Type == "" {
		return core.Category{}, ErrMissingFields
	}
	c := core.Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   strings.TrimSpace(in.Name),
		Type:   in.Type,
		Color:  strings.TrimSpace(in.Color),
	}
	if c.Color == "" {
		c.Color = core.DefaultCategoryColor
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, err
	}
	return created, nil
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]core.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

func (s *CategoryService) Get(ctx context.Context, userID, id string) (core.Category, error) {
	return s.store.GetCategory(ctx, userID, id)
}

func (s *CategoryService) Update(ctx context.Context, userID, id string, p CategoryPatch) (core.Category, error) {
	c, err := s.store.GetCategory(ctx, userID, id)
	if err != nil {
		return core.Category{}, err
	}
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Color != nil {
		c.Color = strings.TrimSpace(*p.Color)
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}
	invalidate(s.inv, userID)
	return c, nil
}

// Delete removes a category. Transactions that referenced it are reported as uncategorized.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	invalidate(s.inv, userID)
	return nil
}

// Names maps the user's category ids to their names.
func (s *CategoryService) Names(ctx context.Context, userID string) (map[string]string, error) {
	return categoryNames(ctx, s.store, userID)
}

type categoryLister interface {
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
}

func categoryNames(ctx context.Context, store categoryLister, userID string) (map[string]string, error) {
	cats, err := store.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}
