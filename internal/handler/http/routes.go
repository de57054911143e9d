package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer, withDeviceID)

	router.Get("/api/version/", h.getServerVersion)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		// websocket upgrade needs the raw writer, so no compression here
		r.Get("/api/feed", h.subscribeFeed)

		r.Group(func(r chi.Router) {
			r.Use(withGZip)

			r.Get("/api/medications", h.listMedications)
			r.Put("/api/medications/{id}", h.upsertMedication)
			r.Delete("/api/medications/{id}", h.deleteMedication)

			r.Get("/api/logs", h.listLogs)
			r.Put("/api/logs/{id}", h.upsertLog)

			r.Get("/api/snapshots/{key}", h.getSnapshot)
			r.Put("/api/snapshots/{key}", h.saveSnapshot)

			r.Get("/api/settings", h.getSettings)
			r.Put("/api/settings", h.saveSettings)

			r.Get("/api/photos/{hash}", h.downloadPhoto)
			r.With(h.photoHashing).Put("/api/photos/{hash}", h.uploadPhoto)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
