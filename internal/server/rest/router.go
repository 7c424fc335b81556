// Package rest exposes the vault over HTTP with chi: bearer-token
// middleware, JSON handlers, error mapping and Prometheus metrics.
package rest

import (
	"net/http"

	"github.com/RamaSai2519/secure-vault/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps are the collaborators NewRouter wires into handlers.
type RouterDeps struct {
	Vault    VaultService
	Verifier Verifier
	Pinger   Pinger
	Logger   logging.Logger
	// Registry receives the HTTP metrics and backs /metrics. A nil Registry
	// disables both.
	Registry *prometheus.Registry
}

// NewRouter builds the HTTP routes:
//
//	GET    /health
//	GET    /metrics
//	POST   /generate-password
//	GET    /vault            (auth)
//	POST   /vault            (auth)
//	GET    /vault/{id}       (auth)
//	PUT    /vault/{id}       (auth)
//	DELETE /vault/{id}       (auth)
func NewRouter(d RouterDeps) *chi.Mux {
	h := NewHandler(d.Vault, d.Pinger, d.Logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Logger))
	if d.Registry != nil {
		r.Use(NewHTTPMetrics(d.Registry).Middleware)
	}
	r.Use(Recoverer(d.Logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", h.Health)
	if d.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Post("/generate-password", h.GeneratePassword)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(d.Verifier, d.Logger))

		r.Get("/vault", h.ListItems)
		r.Post("/vault", h.CreateItem)
		r.Get("/vault/{id}", h.GetItem)
		r.Put("/vault/{id}", h.UpdateItem)
		r.Delete("/vault/{id}", h.DeleteItem)
	})

	return r
}
