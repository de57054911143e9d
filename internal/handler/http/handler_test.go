package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/mock"
	"github.com/sevenoy/GeminiMeds/internal/service"
	"github.com/sevenoy/GeminiMeds/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	validToken = "valid-token"
	testOwner  = "u1"
)

// testServices holds the mocked service layer behind a test router.
type testServices struct {
	medications *mock.MockMedicationService
	logs        *mock.MockLogService
	snapshots   *mock.MockSnapshotService
	settings    *mock.MockSettingsService
	photos      *mock.MockPhotoService
	appInfo     *mock.MockAppInfoService
}

// fakeFeed records the owner of every accepted subscription.
type fakeFeed struct {
	owners []string
}

func (f *fakeFeed) ServeWebsocket(w http.ResponseWriter, _ *http.Request, ownerID string) {
	f.owners = append(f.owners, ownerID)
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func newTestHandler(t *testing.T, feed FeedServer) (*Handler, *testServices) {
	t.Helper()

	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuthService(ctrl)
	auth.EXPECT().ParseToken(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, token string) (models.Token, error) {
			if token != validToken {
				return models.Token{}, service.ErrTokenIsExpiredOrInvalid
			}
			return models.Token{OwnerID: testOwner}, nil
		}).AnyTimes()

	ts := &testServices{
		medications: mock.NewMockMedicationService(ctrl),
		logs:        mock.NewMockLogService(ctrl),
		snapshots:   mock.NewMockSnapshotService(ctrl),
		settings:    mock.NewMockSettingsService(ctrl),
		photos:      mock.NewMockPhotoService(ctrl),
		appInfo:     mock.NewMockAppInfoService(ctrl),
	}

	services := &service.Services{
		AuthService:       auth,
		MedicationService: ts.medications,
		LogService:        ts.logs,
		SnapshotService:   ts.snapshots,
		SettingsService:   ts.settings,
		PhotoService:      ts.photos,
		AppInfoService:    ts.appInfo,
	}

	return NewHandler(services, feed, logger.Nop()), ts
}

// do sends a request through the full router.
func do(t *testing.T, h *Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.Init().ServeHTTP(rr, req)
	return rr
}

func TestNewHandler(t *testing.T) {
	svc := &service.Services{}
	feed := &fakeFeed{}
	log := logger.Nop()

	h := NewHandler(svc, feed, log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, feed, h.feed)
	assert.Equal(t, log, h.logger)
}

func TestInit_ProtectedRoutesRequireAuth(t *testing.T) {
	h, _ := newTestHandler(t, &fakeFeed{})

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/medications"},
		{http.MethodPut, "/api/medications/m1"},
		{http.MethodDelete, "/api/medications/m1"},
		{http.MethodGet, "/api/logs"},
		{http.MethodPut, "/api/logs/l1"},
		{http.MethodGet, "/api/snapshots/default"},
		{http.MethodPut, "/api/snapshots/default"},
		{http.MethodGet, "/api/settings"},
		{http.MethodPut, "/api/settings"},
		{http.MethodGet, "/api/photos/abc"},
		{http.MethodPut, "/api/photos/abc"},
		{http.MethodGet, "/api/feed"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(t, h, route.method, route.path, "", "").Code)
			assert.Equal(t, http.StatusUnauthorized, do(t, h, route.method, route.path, "expired", "").Code)
		})
	}
}

func TestInit_UnknownRoutesAndMethods(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/unknown", validToken, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/medications", validToken, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPatch, "/api/medications/m1", validToken, "").Code)
}

func TestInit_TraceIDHeader(t *testing.T) {
	h, ts := newTestHandler(t, nil)
	ts.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1.0.0").Times(2)

	rr := do(t, h, http.MethodGet, "/api/version/", "", "")
	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/version/", nil)
	req.Header.Set(traceIDHeader, "trace-1")
	rr = httptest.NewRecorder()
	h.Init().ServeHTTP(rr, req)
	assert.Equal(t, "trace-1", rr.Header().Get(traceIDHeader))
}

func TestSubscribeFeed(t *testing.T) {
	feed := &fakeFeed{}
	h, _ := newTestHandler(t, feed)

	rr := do(t, h, http.MethodGet, "/api/feed", validToken, "")

	assert.Equal(t, http.StatusSwitchingProtocols, rr.Code)
	assert.Equal(t, []string{testOwner}, feed.owners)
}

func TestSubscribeFeed_NoHub(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/feed", validToken, "").Code)
}

func TestGetServerVersion(t *testing.T) {
	h, ts := newTestHandler(t, nil)
	ts.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("v1.2.3")
	ts.appInfo.EXPECT().GetBuildInfo(gomock.Any()).Return(models.AppBuildInfo{BuildVersion: "v1.2.3", BuildCommit: "abc"})

	rr := do(t, h, http.MethodGet, "/api/version/", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
	assert.Equal(t, "v1.2.3", rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/version/", nil)
	req.Header.Set("Accept", "application/json")
	rr = httptest.NewRecorder()
	h.Init().ServeHTTP(rr, req)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"abc"`)
}
