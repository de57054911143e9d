package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sevenoy/GeminiMeds/internal/service"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestListMedications(t *testing.T) {
	h, ts := newTestHandler(t, nil)
	ts.medications.EXPECT().List(gomock.Any(), testOwner).Return(nil, nil)

	rr := do(t, h, http.MethodGet, "/api/medications", validToken, "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestUpsertMedication(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		setup      func(ts *testServices)
		wantStatus int
	}{
		{
			name: "owner comes from the token",
			path: "/api/medications/m1",
			body: `{"id":"m1","owner_id":"someone-else","name":"Aspirin","scheduled_time":"09:00","accent":"lime"}`,
			setup: func(ts *testServices) {
				ts.medications.EXPECT().Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m models.Medication) (models.Medication, error) {
						assert.Equal(t, testOwner, m.OwnerID)
						assert.Equal(t, "m1", m.ID)
						return m, nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "id taken from the path",
			path: "/api/medications/m2",
			body: `{"name":"Aspirin","scheduled_time":"09:00","accent":"lime"}`,
			setup: func(ts *testServices) {
				ts.medications.EXPECT().Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m models.Medication) (models.Medication, error) {
						assert.Equal(t, "m2", m.ID)
						return m, nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "id mismatch",
			path:       "/api/medications/m2",
			body:       `{"id":"m1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			path:       "/api/medications/m1",
			body:       `{"id":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			path:       "/api/medications/m1",
			body:       `{"id":"m1","color":"red"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "validation error",
			path: "/api/medications/m1",
			body: `{"id":"m1"}`,
			setup: func(ts *testServices) {
				ts.medications.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(models.Medication{}, service.ErrInvalidDataProvided)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store failure hides the cause",
			path: "/api/medications/m1",
			body: `{"id":"m1"}`,
			setup: func(ts *testServices) {
				ts.medications.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(models.Medication{}, store.ErrExecutingStatement)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ts := newTestHandler(t, nil)
			if tt.setup != nil {
				tt.setup(ts)
			}

			rr := do(t, h, http.MethodPut, tt.path, validToken, tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotContains(t, rr.Body.String(), "failed to execute statement")
		})
	}
}

func TestDeleteMedication(t *testing.T) {
	h, ts := newTestHandler(t, nil)
	ts.medications.EXPECT().Delete(gomock.Any(), testOwner, "m1").Return(nil)
	ts.medications.EXPECT().Delete(gomock.Any(), testOwner, "m2").Return(service.ErrMedicationNotFound)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/medications/m1", validToken, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/medications/m2", validToken, "").Code)
}

func TestUpsertLog(t *testing.T) {
	h, ts := newTestHandler(t, nil)
	ts.logs.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l models.MedicationLog) (models.MedicationLog, error) {
			assert.Equal(t, testOwner, l.OwnerID)
			l.SyncState = models.SyncStateSynced
			return l, nil
		})

	body := `{"id":"l1","medication_id":"m1","taken_at":"2026-01-01T09:05:00Z","time_source":"system","status":"ontime","sync_state":"dirty"}`
	rr := do(t, h, http.MethodPut, "/api/logs/l1", validToken, body)

	require.Equal(t, http.StatusOK, rr.Code)
	var stored models.MedicationLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stored))
	assert.Equal(t, models.SyncStateSynced, stored.SyncState)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/logs/l2", validToken, `{"id":"l1"}`).Code)
}

func TestListLogs(t *testing.T) {
	h, ts := newTestHandler(t, nil)
	ts.logs.EXPECT().List(gomock.Any(), testOwner).Return(nil, store.ErrExecutingQuery)

	assert.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodGet, "/api/logs", validToken, "").Code)
}

func TestSnapshots(t *testing.T) {
	h, ts := newTestHandler(t, nil)
	ts.snapshots.EXPECT().Get(gomock.Any(), testOwner, "empty").Return(models.AppSnapshot{}, service.ErrSnapshotNotFound)
	ts.snapshots.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s models.AppSnapshot) (models.AppSnapshot, error) {
			assert.Equal(t, testOwner, s.OwnerID)
			assert.Equal(t, "default", s.Key)
			s.Version = 2
			return s, nil
		})

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/snapshots/empty", validToken, "").Code)

	rr := do(t, h, http.MethodPut, "/api/snapshots/default", validToken, `{"key":"other","payload":{"medications":[]},"version":9}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var stored models.AppSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stored))
	assert.Equal(t, int64(2), stored.Version)
}

func TestSettings(t *testing.T) {
	h, ts := newTestHandler(t, nil)
	ts.settings.EXPECT().Get(gomock.Any(), testOwner).Return(models.UserSettings{}, service.ErrSettingsNotFound)
	ts.settings.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s models.UserSettings) (models.UserSettings, error) {
			assert.Equal(t, testOwner, s.OwnerID)
			assert.Equal(t, "dark", s.Theme)
			return s, nil
		})

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/settings", validToken, "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/settings", validToken, `{"theme":"dark","device_id":"device_a"}`).Code)
}

func putPhoto(t *testing.T, h *Handler, hash string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, "/api/photos/"+hash, bytes.NewReader(data))
	req.Header.Set("Authorization", "Bearer "+validToken)
	req.Header.Set("Content-Type", "application/octet-stream")

	rr := httptest.NewRecorder()
	h.Init().ServeHTTP(rr, req)
	return rr
}

func TestUploadPhoto(t *testing.T) {
	data := []byte("jpeg-bytes")
	hash := utils.ContentHash(data)

	h, ts := newTestHandler(t, nil)
	ts.photos.EXPECT().Upload(gomock.Any(), testOwner, hash, data).
		Return(models.PhotoRef{Hash: hash, ImagePath: "photos/u1/" + hash}, nil)

	rr := putPhoto(t, h, hash, data)
	require.Equal(t, http.StatusCreated, rr.Code)

	var ref models.PhotoRef
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ref))
	assert.Equal(t, "photos/u1/"+hash, ref.ImagePath)
}

func TestUploadPhoto_Rejected(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	data := []byte("jpeg-bytes")

	rr := putPhoto(t, h, utils.ContentHash([]byte("other")), data)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Integrity check failed")

	big := make([]byte, service.MaxPhotoSize+1)
	assert.Equal(t, http.StatusRequestEntityTooLarge, putPhoto(t, h, utils.ContentHash(big), big).Code)
}

func TestDownloadPhoto(t *testing.T) {
	h, ts := newTestHandler(t, nil)
	ts.photos.EXPECT().Download(gomock.Any(), testOwner, "abc").Return([]byte("jpeg"), nil)
	ts.photos.EXPECT().Download(gomock.Any(), testOwner, "missing").Return(nil, service.ErrPhotoNotFound)

	rr := do(t, h, http.MethodGet, "/api/photos/abc", validToken, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jpeg", rr.Body.String())
	assert.Equal(t, "application/octet-stream", rr.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/photos/missing", validToken, "").Code)
}

func TestStatusFromError(t *testing.T) {
	tests := map[error]int{
		service.ErrPhotoTooLarge:       http.StatusRequestEntityTooLarge,
		service.ErrPhotoHashMismatch:   http.StatusBadRequest,
		service.ErrSnapshotNotFound:    http.StatusNotFound,
		store.ErrCommitingTransaction:  http.StatusInternalServerError,
		context.DeadlineExceeded:       http.StatusInternalServerError,
		service.ErrInvalidDataProvided: http.StatusBadRequest,
	}

	for err, want := range tests {
		assert.Equal(t, want, statusFromError(err), err.Error())
	}
}
