package http

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"financetrack/internal/middleware/trace"
)

// recoverer turns a handler panic into a logged 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				slog.ErrorContext(r.Context(), "Panic recovered",
					"request_id", w.Header().Get(trace.HeaderRequestID),
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
					"stacktrace", string(debug.Stack()))

				InternalServerError(MsgInternal).Write(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
