package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"financetrack/internal/core"
)

type (
	GoalInput struct {
		Title         string          `json:"title"`
		TargetAmount  core.Money      `json:"targetAmount"`
		CurrentAmount core.Money      `json:"currentAmount"`
		CategoryID    string          `json:"categoryId"`
		Deadline      core.Date       `json:"deadline"`
		Status        core.GoalStatus `json:"status"`
	}

	GoalPatch struct {
		Title         *string          `json:"title"`
		TargetAmount  *core.Money      `json:"targetAmount"`
		CurrentAmount *core.Money      `json:"currentAmount"`
		CategoryID    *string          `json:"categoryId"`
		Deadline      *core.Date       `json:"deadline"`
		Status        *core.GoalStatus `json:"status"`
	}
)

type GoalService struct {
	store      GoalStore
	categories CategoryStore
	inv        Invalidator
}

func NewGoalService(store GoalStore, categories CategoryStore, inv Invalidator) *GoalService {
	return &GoalService{store: store, categories: categories, inv: inv}
}

// Create stores a goal. The status defaults to active; the category is optional.
func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput) (core.Goal, error) {
	if strings.TrimSpace(in.Title) == "" || in.TargetAmount.IsZero() {
		return core.Goal{}, ErrMissingFields
	}
	g := core.Goal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		CategoryID:    strings.TrimSpace(in.CategoryID),
		Deadline:      in.Deadline,
		Status:        in.Status,
	}
	if g.Status == "" {
		g.Status = core.GoalActive
	}
	if err := s.check(ctx, g, true); err != nil {
		return core.Goal{}, err
	}

	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, err
	}
	invalidate(s.inv, userID)
	return created, nil
}

func (s *GoalService) List(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *GoalService) Get(ctx context.Context, userID, id string) (core.Goal, error) {
	return s.store.GetGoal(ctx, userID, id)
}

func (s *GoalService) Update(ctx context.Context, userID, id string, p GoalPatch) (core.Goal, error) {
	g, err := s.store.GetGoal(ctx, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	if p.Title != nil {
		g.Title = strings.TrimSpace(*p.Title)
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.CategoryID != nil {
		g.CategoryID = strings.TrimSpace(*p.CategoryID)
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if err := s.check(ctx, g, p.CategoryID != nil); err != nil {
		return core.Goal{}, err
	}

	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return core.Goal{}, err
	}
	invalidate(s.inv, userID)
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteGoal(ctx, userID, id); err != nil {
		return err
	}
	invalidate(s.inv, userID)
	return nil
}

func (s *GoalService) check(ctx context.Context, g core.Goal, categoryChanged bool) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if categoryChanged && g.CategoryID != "" {
		if _, err := requireCategory(ctx, s.categories, g.UserID, g.CategoryID); err != nil {
			return err
		}
	}
	return nil
}
