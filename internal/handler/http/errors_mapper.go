package http

import (
	"errors"
	"net/http"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/service"
	"github.com/sevenoy/GeminiMeds/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrMedicationNotFound:      http.StatusNotFound,
	service.ErrSnapshotNotFound:        http.StatusNotFound,
	service.ErrSettingsNotFound:        http.StatusNotFound,
	service.ErrPhotoNotFound:           http.StatusNotFound,
	service.ErrPhotoHashMismatch:       http.StatusBadRequest,
	service.ErrPhotoTooLarge:           http.StatusRequestEntityTooLarge,
	service.ErrVersionIsNotSpecified:   http.StatusBadRequest,

	store.ErrRecordNotFound: http.StatusNotFound,
	store.ErrEmptyOwner:     http.StatusBadRequest,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with its mapped status. Server errors
// hide the message from the client.
func writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", fn).Msg("request failed")
		http.Error(w, http.StatusText(status), status)
		return
	}

	log.Warn().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	http.Error(w, err.Error(), status)
}
