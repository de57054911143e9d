package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sevenoy/GeminiMeds/internal/app"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/utils"
)

// uploadPhoto stores the raw body under the hash in the path. The body has
// already been size and integrity checked by photoHashing.
func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.uploadPhoto").Msg("failed to read request body")
		http.Error(w, app.MsgUnreadableBody, http.StatusBadRequest)
		return
	}

	ref, err := h.services.PhotoService.Upload(r.Context(), ownerID, chi.URLParam(r, "hash"), data)
	if err != nil {
		writeError(w, r, "*Handler.uploadPhoto", err)
		return
	}

	utils.WriteJSON(w, ref, http.StatusCreated)
}

func (h *Handler) downloadPhoto(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	data, err := h.services.PhotoService.Download(r.Context(), ownerID, chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, r, "*Handler.downloadPhoto", err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
