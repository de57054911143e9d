package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sevenoy/GeminiMeds/internal/app"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
)

// maxSnapshotBody limits snapshot uploads. Payloads embed log photos.
const maxSnapshotBody = 256 << 20

func (h *Handler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	snapshot, err := h.services.SnapshotService.Get(r.Context(), ownerID, chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, "*Handler.getSnapshot", err)
		return
	}

	utils.WriteJSON(w, snapshot, http.StatusOK)
}

// saveSnapshot stores the body in the slot named by the path. Version and
// UpdatedAt are assigned by the store; client values are ignored.
func (h *Handler) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var snapshot models.AppSnapshot
	if err := utils.DecodeJSON(r.Body, &snapshot, maxSnapshotBody); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.saveSnapshot").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	snapshot.OwnerID = ownerID
	snapshot.Key = chi.URLParam(r, "key")

	stored, err := h.services.SnapshotService.Save(r.Context(), snapshot)
	if err != nil {
		writeError(w, r, "*Handler.saveSnapshot", err)
		return
	}

	utils.WriteJSON(w, stored, http.StatusOK)
}
