package http

import (
	"net/http"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/service"
)

// FeedServer streams an owner's change events over an upgraded connection.
type FeedServer interface {
	ServeWebsocket(w http.ResponseWriter, r *http.Request, ownerID string)
}

type Handler struct {
	services *service.Services
	feed     FeedServer

	logger *logger.Logger
}

// NewHandler returns the REST handler. feed may be nil, in which case
// GET /api/feed answers 404.
func NewHandler(services *service.Services, feed FeedServer, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		feed:     feed,
		logger:   logger,
	}
}
