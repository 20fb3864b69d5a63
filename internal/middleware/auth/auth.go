// Package auth authenticates bearer tokens and enforces roles on HTTP routes.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	tokens "financetrack/internal/auth"
	"financetrack/internal/core"
)

type contextKey string

const userKey contextKey = "auth_user"

// Messages returned to clients on authentication failures.
const (
	MsgNoToken      = "No token, authorization denied"
	MsgInvalidToken = "Invalid or expired token"
	MsgUserNotFound = "User not found"
	MsgAdminsOnly   = "Access denied: Admins only"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(token string) (*tokens.Claims, error)
}

// UserLookup loads the user a token refers to.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (core.User, error)
}

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, message string)

// Middleware authenticates requests carrying a bearer token
type Middleware struct {
	tokens  TokenValidator
	users   UserLookup
	onError ErrorWriter
}

// NewMiddleware creates an authentication middleware. A nil onError writes plain text.
func NewMiddleware(tokens TokenValidator, users UserLookup, onError ErrorWriter) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, status int, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{tokens: tokens, users: users, onError: onError}
}

// Require rejects requests without a valid token and stores the user in the context.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			m.onError(w, r, http.StatusUnauthorized, MsgNoToken)
			return
		}

		claims, err := m.tokens.Validate(raw)
		if err != nil {
			slog.DebugContext(r.Context(), "Token rejected", "component", "auth", "error", err)
			m.onError(w, r, http.StatusUnauthorized, MsgInvalidToken)
			return
		}

		user, err := m.users.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, core.ErrNotFound) {
				slog.ErrorContext(r.Context(), "Failed to load token user", "component", "auth", "user_id", claims.UserID, "error", err)
			}
			m.onError(w, r, http.StatusUnauthorized, MsgUserNotFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRole rejects authenticated users lacking role. It must run after Require.
func (m *Middleware) RequireRole(role core.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user.Role != role {
			m.onError(w, r, http.StatusForbidden, MsgAdminsOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u core.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (core.User, bool) {
	u, ok := ctx.Value(userKey).(core.User)
	return u, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
