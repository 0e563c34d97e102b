package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/pidstore/internal/storage"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/system/status", s.handleSystemStatus)

		r.Get("/config", s.handleGetConfig)
		r.Get("/config/fields", s.handleListFields)
		r.Get("/config/schema", s.handleGetSchema)
		r.Get("/items/{name}", s.handleGetItem)
		r.Get("/audit", s.handleListAuditLogs)
		r.Get("/ws", s.handleWebSocket)

		// Mutating routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Put("/config", s.handlePutConfig)
			r.Post("/config/commit", s.handleCommit)
			r.Post("/config/defaults", s.handleSetDefaults)
			r.Post("/config/factory-reset", s.handleFactoryReset)
			r.Put("/items/{name}", s.handlePutItem)
		})
	})

	return r
}

// handleHealth reports whether the configuration store is usable. A store
// that fell back to defaults answers 503 with status "degraded".
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	state := s.store.State()
	status, code := "ok", http.StatusOK
	if state != storage.StateReady {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":  status,
		"store":   state,
		"version": s.version,
	})
}
