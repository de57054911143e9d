package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sevenoy/GeminiMeds/internal/app"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
)

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	logs, err := h.services.LogService.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, "*Handler.listLogs", err)
		return
	}
	if logs == nil {
		logs = []models.MedicationLog{}
	}

	utils.WriteJSON(w, logs, http.StatusOK)
}

func (h *Handler) upsertLog(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var medicationLog models.MedicationLog
	if err := utils.DecodeJSON(r.Body, &medicationLog, maxRecordBody); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.upsertLog").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	if medicationLog.ID != "" && medicationLog.ID != id {
		http.Error(w, app.MsgRecordIDMismatch, http.StatusBadRequest)
		return
	}
	medicationLog.ID = id
	medicationLog.OwnerID = ownerID

	stored, err := h.services.LogService.Upsert(r.Context(), medicationLog)
	if err != nil {
		writeError(w, r, "*Handler.upsertLog", err)
		return
	}

	utils.WriteJSON(w, stored, http.StatusOK)
}
