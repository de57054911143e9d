package http

import (
	"net/http"
	"strings"

	"github.com/sevenoy/GeminiMeds/internal/utils"
)

// getServerVersion answers with the plain version string, or with the
// whole build info when the client accepts JSON.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		utils.WriteJSON(w, h.services.AppInfoService.GetBuildInfo(r.Context()), http.StatusOK)
		return
	}

	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}
