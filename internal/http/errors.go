package http

import (
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"financetrack/internal/core"
	"financetrack/internal/export"
	"financetrack/internal/log"
	"financetrack/internal/services"
)

const (
	MsgInvalidCredentials = "Invalid Email or Password"
	MsgEmailTaken         = "Email already exists"
	MsgInvalidBody        = "Invalid request body"
	MsgInternal           = "Internal server error"
	MsgTooManyRequests    = "Too many requests, please try again later"
	MsgRouteNotFound      = "Route not found"
)

// errorMessages customizes the client message of the two route-dependent failures.
type errorMessages struct {
	missing  string
	notFound string
}

var (
	userMessages        = errorMessages{missing: "All fields are required", notFound: "User not found"}
	transactionMessages = errorMessages{missing: "Type, category, and amount are required", notFound: "Transaction not found or unauthorized"}
	categoryMessages    = errorMessages{missing: "Name and type are required", notFound: "Category not found or unauthorized"}
	budgetMessages      = errorMessages{missing: "Category and amount are required", notFound: "Budget not found or unauthorized"}
	goalMessages        = errorMessages{missing: "Title and target amount are required", notFound: "Goal not found or unauthorized"}
	reportMessages      = errorMessages{missing: "Start and end dates are required", notFound: "Not found"}
)

// fail maps a service error to its HTTP status and client message. Anything
// unrecognized is logged and reported as a 500 without details.
func fail(w http.ResponseWriter, r *http.Request, err error, msgs errorMessages) {
	switch {
	case errors.Is(err, errBadBody):
		BadRequestError(MsgInvalidBody).Write(w)
	case errors.Is(err, errBadQuery):
		BadRequestError(clientMessage(err)).Write(w)
	case errors.Is(err, services.ErrMissingFields):
		BadRequestError(msgs.missing).Write(w)
	case errors.Is(err, services.ErrInvalidCredentials):
		UnauthorizedError(MsgInvalidCredentials).Write(w)
	case errors.Is(err, core.ErrEmailTaken):
		BadRequestError(MsgEmailTaken).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError(msgs.notFound).Write(w)
	case errors.Is(err, export.ErrUnknownFormat):
		BadRequestError(clientMessage(err)).Write(w)
	case services.IsInputError(err):
		BadRequestError(clientMessage(err)).Write(w)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		InternalServerError(MsgInternal).Write(w)
	}
}

// clientMessage capitalizes an error text for display.
func clientMessage(err error) string {
	s := err.Error()
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}
