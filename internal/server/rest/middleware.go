package rest

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/logging"
	"github.com/RamaSai2519/secure-vault/internal/server/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Verifier checks the raw Authorization header of a request.
type Verifier interface {
	Verify(rawHeader string) (*auth.Identity, error)
}

// Authenticate rejects requests without a valid bearer credential with 401
// and otherwise stores the caller's identity in the request context.
func Authenticate(v Verifier, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := v.Verify(r.Header.Get(common.AuthorizationHeaderName))
			if err != nil {
				log.Debug(r.Context(), "authentication failed",
					"request_id", middleware.GetReqID(r.Context()),
					"error", err)
				writeError(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequestLogger writes one line per request once the response is complete.
func RequestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info(r.Context(), "http request",
				"method", r.Method,
				"route", routePattern(r),
				"status", statusCode(ww),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote_addr", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

// routePattern returns the matched chi pattern, e.g. "/vault/{id}". It is
// only populated after routing, so call it once next has returned.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Recoverer turns a panic in a handler into a logged 500 with the generic
// JSON error body. http.ErrAbortHandler is re-raised for net/http.
func Recoverer(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				log.Error(r.Context(), "panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
					"panic", rvr,
					"stack", string(debug.Stack()))
				writeErrorMessage(w, http.StatusInternalServerError, msgInternal)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
