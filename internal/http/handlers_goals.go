package http

import (
	"net/http"

	"financetrack/internal/services"
)

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var in services.GoalInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err, goalMessages)
		return
	}
	in.Title = sanitizeInput(in.Title)

	g, err := s.deps.Goals.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		fail(w, r, err, goalMessages)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(map[string]interface{}{
		"message": "Goal created successfully",
		"goal":    g,
	}).Write(w)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.deps.Goals.List(r.Context(), currentUser(r).ID)
	if err != nil {
		fail(w, r, err, goalMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{"goals": orEmpty(goals)}).Write(w)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.deps.Goals.Get(r.Context(), currentUser(r).ID, pathID(r))
	if err != nil {
		fail(w, r, err, goalMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{"goal": g}).Write(w)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var p services.GoalPatch
	if err := decodeJSON(w, r, &p); err != nil {
		fail(w, r, err, goalMessages)
		return
	}
	sanitizePtr(p.Title)

	g, err := s.deps.Goals.Update(r.Context(), currentUser(r).ID, pathID(r), p)
	if err != nil {
		fail(w, r, err, goalMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{
		"message": "Goal updated successfully",
		"goal":    g,
	}).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Goals.Delete(r.Context(), currentUser(r).ID, pathID(r)); err != nil {
		fail(w, r, err, goalMessages)
		return
	}
	NewJSONResponse().Message("Goal deleted successfully").Write(w)
}
