package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", h.getVersion)

		// routes without authorization
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", h.register)
			r.Post("/auth/login", h.login)
			r.Post("/auth/refresh", h.refresh)
		})

		// routes behind bearer-token authorization
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Post("/auth/logout", h.logout)
			r.Get("/auth/devices", h.devices)
			r.Delete("/auth/devices/{id}", h.logoutDevice)

			r.Post("/records", h.createRecord)
			r.Get("/records", h.listRecords)
			r.Get("/records/search", h.searchRecords)
			r.Get("/records/recent", h.recentRecords)
			r.Get("/records/by-ids", h.recordsByIDs)
			r.Get("/records/{id}", h.getRecord)
			r.Patch("/records/{id}", h.updateRecord)
			r.Delete("/records/{id}", h.deleteRecord)

			r.Post("/sync/pull", h.syncPull)
			r.Post("/sync/push", h.syncPush)
			r.Post("/sync/resolve-conflict", h.resolveConflict)
			r.Post("/sync/bulk-migrate", h.bulkMigrate)

			r.Post("/ai/analyze", h.analyze)
		})
	})

	return router
}
