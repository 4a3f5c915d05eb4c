package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.health)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.checkHash)
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
	})

	// sync routes; auth runs first so that anonymous calls never reach a store
	router.Group(func(r chi.Router) {
		r.Use(h.auth, h.checkHash)
		r.Post("/api/sync/pull", h.pull)
		r.Post("/api/sync/push", h.push)
		r.Post("/api/sync/resolve", h.resolve)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
