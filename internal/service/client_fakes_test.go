package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/echo"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an owner-scoped in-memory remote store shared by several
// test devices.
type fakeBackend struct {
	mu          sync.Mutex
	medications map[string]models.Medication
	logs        map[string]models.MedicationLog
	snapshots   map[string]models.AppSnapshot
	settings    map[string]models.UserSettings
	photos      map[string][]byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		medications: map[string]models.Medication{},
		logs:        map[string]models.MedicationLog{},
		snapshots:   map[string]models.AppSnapshot{},
		settings:    map[string]models.UserSettings{},
		photos:      map[string][]byte{},
	}
}

// fakeRemote is one device's view of a fakeBackend.
type fakeRemote struct {
	backend *fakeBackend

	mu    sync.Mutex
	token string
}

var _ adapter.RemoteStore = (*fakeRemote)(nil)

func (r *fakeRemote) SetToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = token
}

func (r *fakeRemote) Token() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

func (r *fakeRemote) owner() (string, error) {
	ownerID, err := utils.ParseOwnerIDFromJWT(r.Token())
	if err != nil {
		return "", adapter.ErrUnauthorized
	}
	return ownerID, nil
}

func (r *fakeRemote) ListMedications(_ context.Context) ([]models.Medication, error) {
	ownerID, err := r.owner()
	if err != nil {
		return nil, err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	out := []models.Medication{}
	for _, m := range r.backend.medications {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRemote) UpsertMedication(_ context.Context, m models.Medication) error {
	ownerID, err := r.owner()
	if err != nil {
		return err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	m.OwnerID = ownerID
	r.backend.medications[m.ID] = m
	return nil
}

func (r *fakeRemote) DeleteMedication(_ context.Context, id string) error {
	if _, err := r.owner(); err != nil {
		return err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	if _, ok := r.backend.medications[id]; !ok {
		return adapter.ErrNotFound
	}
	delete(r.backend.medications, id)
	for logID, l := range r.backend.logs {
		if l.MedicationID == id {
			delete(r.backend.logs, logID)
		}
	}
	return nil
}

func (r *fakeRemote) ListLogs(_ context.Context) ([]models.MedicationLog, error) {
	ownerID, err := r.owner()
	if err != nil {
		return nil, err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	out := []models.MedicationLog{}
	for _, l := range r.backend.logs {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRemote) UpsertLog(_ context.Context, l models.MedicationLog) error {
	ownerID, err := r.owner()
	if err != nil {
		return err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	l.OwnerID = ownerID
	l.Photo = nil
	l.SyncState = ""
	r.backend.logs[l.ID] = l
	return nil
}

func (r *fakeRemote) GetSnapshot(_ context.Context, key string) (models.AppSnapshot, error) {
	ownerID, err := r.owner()
	if err != nil {
		return models.AppSnapshot{}, err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	s, ok := r.backend.snapshots[ownerID+"/"+key]
	if !ok {
		return models.AppSnapshot{}, adapter.ErrNotFound
	}
	return s, nil
}

func (r *fakeRemote) UpsertSnapshot(_ context.Context, s models.AppSnapshot) (models.AppSnapshot, error) {
	ownerID, err := r.owner()
	if err != nil {
		return models.AppSnapshot{}, err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	slot := ownerID + "/" + s.Key
	s.OwnerID = ownerID
	s.Version = r.backend.snapshots[slot].Version + 1
	s.UpdatedAt = time.Now().UTC()
	r.backend.snapshots[slot] = s
	return s, nil
}

func (r *fakeRemote) GetSettings(_ context.Context) (models.UserSettings, error) {
	ownerID, err := r.owner()
	if err != nil {
		return models.UserSettings{}, err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	s, ok := r.backend.settings[ownerID]
	if !ok {
		return models.UserSettings{}, adapter.ErrNotFound
	}
	return s, nil
}

func (r *fakeRemote) UpsertSettings(_ context.Context, s models.UserSettings) error {
	ownerID, err := r.owner()
	if err != nil {
		return err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	s.OwnerID = ownerID
	r.backend.settings[ownerID] = s
	return nil
}

func (r *fakeRemote) UploadPhoto(_ context.Context, hash string, data []byte) (models.PhotoRef, error) {
	if _, err := r.owner(); err != nil {
		return models.PhotoRef{}, err
	}
	r.backend.mu.Lock()
	defer r.backend.mu.Unlock()

	r.backend.photos[hash] = data
	return models.PhotoRef{Hash: hash, ImagePath: "photos/" + hash}, nil
}

// testDevice is one install: its own local store, echo gate and services.
type testDevice struct {
	local    store.LocalStore
	remote   *fakeRemote
	gate     *echo.Gate
	services *ClientServices
}

func newTestDevice(t *testing.T, backend *fakeBackend, deviceID string) *testDevice {
	t.Helper()

	local := store.NewMemoryLocalStore()
	remote := &fakeRemote{backend: backend}
	gate := echo.NewGate(0)
	t.Cleanup(gate.Close)

	cfg := config.ClientSync{DeviceID: deviceID, SnapshotKey: "default"}

	return &testDevice{
		local:    local,
		remote:   remote,
		gate:     gate,
		services: NewClientServices(local, remote, gate, cfg, logger.Nop()),
	}
}

func (d *testDevice) signIn(t *testing.T, ownerID string) {
	t.Helper()
	_, err := d.services.Session.SignIn(context.Background(), testToken(t, ownerID))
	require.NoError(t, err)
}

func testToken(t *testing.T, ownerID string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("geminimeds-test", ownerID, time.Hour, "test-secret")
	require.NoError(t, err)
	return token.SignedString
}

// fixedClock is a settable clock for services with a now field.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
