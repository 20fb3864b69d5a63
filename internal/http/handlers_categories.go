package http

import (
	"net/http"

	"financetrack/internal/services"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err, categoryMessages)
		return
	}
	in.Name = sanitizeInput(in.Name)

	c, err := s.deps.Categories.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		fail(w, r, err, categoryMessages)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(map[string]interface{}{
		"message":  "Category created",
		"category": c,
	}).Write(w)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.deps.Categories.List(r.Context(), currentUser(r).ID)
	if err != nil {
		fail(w, r, err, categoryMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{"categories": orEmpty(cats)}).Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Categories.Get(r.Context(), currentUser(r).ID, pathID(r))
	if err != nil {
		fail(w, r, err, categoryMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{"category": c}).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var p services.CategoryPatch
	if err := decodeJSON(w, r, &p); err != nil {
		fail(w, r, err, categoryMessages)
		return
	}
	sanitizePtr(p.Name)

	c, err := s.deps.Categories.Update(r.Context(), currentUser(r).ID, pathID(r), p)
	if err != nil {
		fail(w, r, err, categoryMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{
		"message":  "Category updated",
		"category": c,
	}).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Categories.Delete(r.Context(), currentUser(r).ID, pathID(r)); err != nil {
		fail(w, r, err, categoryMessages)
		return
	}
	NewJSONResponse().Message("Category deleted").Write(w)
}
