package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"financetrack/internal/core"
	authmw "financetrack/internal/middleware/auth"
)

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(parsedTime), nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

func sanitizePtr(s *string) {
	if s != nil {
		*s = sanitizeInput(*s)
	}
}

// pathID returns the {id} route variable.
func pathID(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["id"])
}

// currentUser returns the user the auth middleware attached to the request.
// Protected routes always carry one.
func currentUser(r *http.Request) core.User {
	u, _ := authmw.UserFromContext(r.Context())
	return u
}

// orEmpty keeps empty listings encoded as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
