package http

import (
	"net/http"

	"financetrack/internal/log"
	"financetrack/internal/services"
)

type (
	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	userSummary struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	loginResponse struct {
		Message string      `json:"message"`
		User    userSummary `json:"user"`
		Token   string      `json:"token"`
	}
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err, userMessages)
		return
	}
	in.Name = sanitizeInput(in.Name)
	in.Phone = sanitizeInput(in.Phone)

	u, err := s.deps.Users.Signup(r.Context(), in)
	if err != nil {
		s.events.LogAuthEvent(r.Context(), log.OpSignup, "", s.detector.ExtractClientIP(r), false)
		fail(w, r, err, userMessages)
		return
	}
	s.events.LogAuthEvent(r.Context(), log.OpSignup, u.ID, s.detector.ExtractClientIP(r), true)

	NewJSONResponse().Status(http.StatusCreated).Message("SignUp Successful").Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err, userMessages)
		return
	}

	res, err := s.deps.Users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		s.events.LogAuthEvent(r.Context(), log.OpLogin, "", s.detector.ExtractClientIP(r), false)
		fail(w, r, err, userMessages)
		return
	}
	s.events.LogAuthEvent(r.Context(), log.OpLogin, res.User.ID, s.detector.ExtractClientIP(r), true)

	NewJSONResponse().Body(loginResponse{
		Message: "Login successful",
		User:    userSummary{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
		Token:   res.Token,
	}).Write(w)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.deps.Users.Profile(r.Context(), currentUser(r).ID)
	if err != nil {
		fail(w, r, err, userMessages)
		return
	}
	NewJSONResponse().Body(u).Write(w)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Users.ListUsers(r.Context())
	if err != nil {
		fail(w, r, err, userMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{"users": orEmpty(users)}).Write(w)
}
