// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sevenoy/GeminiMeds/internal/app"
	"github.com/sevenoy/GeminiMeds/internal/logger"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler.
// A record path requested with a method it does not serve (for example
// DELETE on /api/logs/{id}, since logs are append-only) answers 404 rather
// than chi's 405, so the route table is not disclosed.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			router.ServeHTTP(w, r)
			return
		}

		logger.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("method not served on path")
		http.Error(w, app.MsgNotFound, http.StatusNotFound)
	}
}
