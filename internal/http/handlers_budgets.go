package http

import (
	"net/http"

	"financetrack/internal/services"
)

type (
	budgetRequest struct {
		services.BudgetInput
		Category *CategoryRef `json:"category"`
	}

	budgetPatchRequest struct {
		services.BudgetPatch
		Category *CategoryRef `json:"category"`
	}
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err, budgetMessages)
		return
	}
	in := req.BudgetInput
	in.CategoryID = pickCategory(in.CategoryID, req.Category)

	b, err := s.deps.Budgets.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		fail(w, r, err, budgetMessages)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(map[string]interface{}{
		"message": "✅ Budget created successfully",
		"budget":  b,
	}).Write(w)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.deps.Budgets.List(r.Context(), currentUser(r).ID)
	if err != nil {
		fail(w, r, err, budgetMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{"budgets": orEmpty(budgets)}).Write(w)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.deps.Budgets.Get(r.Context(), currentUser(r).ID, pathID(r))
	if err != nil {
		fail(w, r, err, budgetMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{"budget": b}).Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err, budgetMessages)
		return
	}
	p := req.BudgetPatch
	if p.CategoryID == nil && req.Category != nil {
		id := string(*req.Category)
		p.CategoryID = &id
	}

	b, err := s.deps.Budgets.Update(r.Context(), currentUser(r).ID, pathID(r), p)
	if err != nil {
		fail(w, r, err, budgetMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{
		"message": "✅ Budget updated successfully",
		"budget":  b,
	}).Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Budgets.Delete(r.Context(), currentUser(r).ID, pathID(r)); err != nil {
		fail(w, r, err, budgetMessages)
		return
	}
	NewJSONResponse().Message("✅ Budget deleted successfully").Write(w)
}
