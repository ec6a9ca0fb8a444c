// Package api exposes the read/write accessors consumed by the
// presentation layer: current status, uptime history, incidents,
// maintenances and subscriber signup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zapdesk/statusd/internal/notifier"
	"github.com/zapdesk/statusd/internal/store"
)

// NewRouter creates a new HTTP router
func NewRouter(st *store.Store, n *notifier.Notifier) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Liveness endpoint, also the target of the api probe
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/status", func(r chi.Router) {
		r.Get("/current", HandleCurrentStatus(st))
		r.Get("/history/{slug}", HandleUptimeHistory(st))
		r.Get("/incidents", HandleIncidents(st))
		r.Get("/incidents/{id}", HandleIncident(st))
		r.Get("/maintenances", HandleMaintenances(st))
		r.Post("/subscribe", HandleSubscribe(st, n))
		r.Get("/verify/{token}", HandleVerify(st))
		r.Get("/unsubscribe/{token}", HandleUnsubscribe(st))
	})

	return r
}
