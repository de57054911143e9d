package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sevenoy/GeminiMeds/internal/app"
	"github.com/sevenoy/GeminiMeds/internal/service"
	"github.com/sevenoy/GeminiMeds/internal/utils"
)

// photoHashing rejects photo uploads whose body is larger than
// [service.MaxPhotoSize] or whose SHA-256 differs from the {hash} path
// parameter. The body is restored for the next handler.
func (h *Handler) photoHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := h.logger.With().Str("func", "*Handler.photoHashing").Logger()

		body, err := io.ReadAll(io.LimitReader(r.Body, service.MaxPhotoSize+1))
		if err != nil {
			log.Err(err).Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if len(body) > service.MaxPhotoSize {
			log.Warn().Msg("photo body exceeds the size limit")
			http.Error(w, service.ErrPhotoTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		hash := chi.URLParam(r, "hash")
		if !utils.VerifyContentHash(body, hash) {
			log.Error().
				Str("hash from request", hash).
				Str("hashed body", utils.ContentHash(body)).
				Msg("hashes are not equal")
			http.Error(w, app.MsgIntegrityCheckFailed, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
