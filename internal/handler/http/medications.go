package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sevenoy/GeminiMeds/internal/app"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
)

// maxRecordBody limits the JSON body of a single record write.
const maxRecordBody = 1 << 20

func (h *Handler) listMedications(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	medications, err := h.services.MedicationService.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, "*Handler.listMedications", err)
		return
	}
	if medications == nil {
		medications = []models.Medication{}
	}

	utils.WriteJSON(w, medications, http.StatusOK)
}

func (h *Handler) upsertMedication(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var medication models.Medication
	if err := utils.DecodeJSON(r.Body, &medication, maxRecordBody); err != nil {
		log.Err(err).Str("func", "*Handler.upsertMedication").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	if medication.ID != "" && medication.ID != id {
		http.Error(w, app.MsgRecordIDMismatch, http.StatusBadRequest)
		return
	}
	medication.ID = id
	medication.OwnerID = ownerID

	stored, err := h.services.MedicationService.Upsert(r.Context(), medication)
	if err != nil {
		writeError(w, r, "*Handler.upsertMedication", err)
		return
	}

	utils.WriteJSON(w, stored, http.StatusOK)
}

func (h *Handler) deleteMedication(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.services.MedicationService.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "*Handler.deleteMedication", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
