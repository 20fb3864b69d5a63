package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tokens "financetrack/internal/auth"
	"financetrack/internal/core"
)

type stubUsers map[string]core.User

func (s stubUsers) GetUserByID(_ context.Context, id string) (core.User, error) {
	u, ok := s[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func setup(t *testing.T) (*tokens.TokenService, *Middleware) {
	t.Helper()
	ts, err := tokens.NewTokenService("middleware-test-secret", time.Hour, "test")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	users := stubUsers{
		"u1":    {ID: "u1", Name: "Ada", Role: core.RoleUser},
		"admin": {ID: "admin", Name: "Root", Role: core.RoleAdmin},
	}
	return ts, NewMiddleware(ts, users, nil)
}

func issue(t *testing.T, ts *tokens.TokenService, id string) string {
	t.Helper()
	tok, _, err := ts.Issue(core.User{ID: id})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func TestRequire(t *testing.T) {
	ts, m := setup(t)
	var seen core.User
	h := m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, MsgNoToken},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, MsgNoToken},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, MsgInvalidToken},
		{"unknown user", "Bearer " + issue(t, ts, "ghost"), http.StatusUnauthorized, MsgUserNotFound},
		{"valid", "bearer " + issue(t, ts, "u1"), http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.body != "" && !strings.Contains(rec.Body.String(), tc.body) {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tc.body)
			}
		})
	}
	if seen.ID != "u1" {
		t.Fatalf("user not stored in context: %+v", seen)
	}
}

func TestRequireRole(t *testing.T) {
	ts, m := setup(t)
	h := m.Require(m.RequireRole(core.RoleAdmin, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	for id, want := range map[string]int{"u1": http.StatusForbidden, "admin": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, ts, id))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("%s: status = %d, want %d", id, rec.Code, want)
		}
	}
}
