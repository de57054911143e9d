package http

import (
	"net/http"

	"github.com/sevenoy/GeminiMeds/internal/app"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	settings, err := h.services.SettingsService.Get(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, "*Handler.getSettings", err)
		return
	}

	utils.WriteJSON(w, settings, http.StatusOK)
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var settings models.UserSettings
	if err := utils.DecodeJSON(r.Body, &settings, maxRecordBody); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.saveSettings").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}
	settings.OwnerID = ownerID

	stored, err := h.services.SettingsService.Save(r.Context(), settings)
	if err != nil {
		writeError(w, r, "*Handler.saveSettings", err)
		return
	}

	utils.WriteJSON(w, stored, http.StatusOK)
}
