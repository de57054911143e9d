package http

import (
	"net/http"

	"github.com/sevenoy/GeminiMeds/internal/app"
)

func (h *Handler) subscribeFeed(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	if h.feed == nil {
		http.Error(w, app.MsgFeedUnavailable, http.StatusNotFound)
		return
	}

	h.feed.ServeWebsocket(w, r, ownerID)
}
