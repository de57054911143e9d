package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/mock"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestMedicationService(t *testing.T, ownerID string) (*clientMedicationService, store.LocalStore, *mock.MockRemoteStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	local := store.NewMemoryLocalStore()
	device := NewDeviceIdentity(local.Meta(), "device_test")

	svc := NewClientMedicationService(local, remote, stubSession{ownerID: ownerID}, device, logger.Nop()).(*clientMedicationService)
	svc.now = fixedClock(takenAt)
	return svc, local, remote
}

func TestClientMedicationService_Create(t *testing.T) {
	ctx := context.Background()
	svc, local, _ := newTestMedicationService(t, "u1")

	var notified []models.Topic
	local.Observe(func(_ context.Context, topic models.Topic) { notified = append(notified, topic) })

	m, err := svc.Create(ctx, models.Medication{Name: "  Vitamin D ", ScheduledTime: "08:30"})
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "Vitamin D", m.Name)
	assert.Equal(t, models.AccentLime, m.Accent)
	assert.Equal(t, "u1", m.OwnerID)
	assert.Equal(t, "device_test", m.DeviceID)
	assert.Equal(t, takenAt, m.CreatedAt)
	assert.Equal(t, takenAt, m.UpdatedAt)

	got, err := local.Medications().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.Equal(t, []models.Topic{models.TopicMedications}, notified)
}

func TestClientMedicationService_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, local, _ := newTestMedicationService(t, "")

	tests := []struct {
		name string
		in   models.Medication
	}{
		{name: "empty name", in: models.Medication{Name: " ", ScheduledTime: "09:00"}},
		{name: "bad time", in: models.Medication{Name: "Aspirin", ScheduledTime: "9am"}},
		{name: "bad accent", in: models.Medication{Name: "Aspirin", ScheduledTime: "09:00", Accent: "neon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}

	all, err := local.Medications().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClientMedicationService_Update_KeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestMedicationService(t, "")

	created, err := svc.Create(ctx, aspirin())
	require.NoError(t, err)

	later := takenAt.Add(time.Hour)
	svc.now = fixedClock(later)

	updated, err := svc.Update(ctx, models.Medication{ID: "m1", Name: "Aspirin Forte", ScheduledTime: "10:00", CreatedAt: later})
	require.NoError(t, err)

	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, created.Accent, updated.Accent)
	assert.Empty(t, updated.OwnerID, "guest records carry no owner")

	_, err = svc.Update(ctx, models.Medication{ID: "missing", Name: "x", ScheduledTime: "10:00"})
	assert.ErrorIs(t, err, ErrMedicationNotFound)
}

func TestClientMedicationService_Delete_Cascade(t *testing.T) {
	ctx := context.Background()
	svc, local, remote := newTestMedicationService(t, "u1")

	other := aspirin()
	other.ID = "m2"
	require.NoError(t, local.Medications().Upsert(ctx, aspirin(), other))
	require.NoError(t, local.Logs().Upsert(ctx, dirtyLog("l1", "m1"), dirtyLog("l2", "m1"), dirtyLog("l3", "m2")))

	remote.EXPECT().DeleteMedication(gomock.Any(), "m1").
		DoAndReturn(func(ctx context.Context, _ string) error {
			assert.Equal(t, "device_test", utils.GetDeviceIDFromContext(ctx), "remote delete announces this device")
			return nil
		})

	require.NoError(t, svc.Delete(ctx, "m1"))

	_, err := local.Medications().GetByID(ctx, "m1")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	logs, err := local.Logs().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "l3", logs[0].ID)
}

func TestClientMedicationService_Delete_RemoteFailureIsLogged(t *testing.T) {
	ctx := context.Background()

	for _, remoteErr := range []error{adapter.ErrNotFound, errors.New("offline")} {
		svc, local, remote := newTestMedicationService(t, "u1")
		require.NoError(t, local.Medications().Upsert(ctx, aspirin()))

		remote.EXPECT().DeleteMedication(gomock.Any(), "m1").Return(remoteErr)

		assert.NoError(t, svc.Delete(ctx, "m1"))
	}
}

func TestClientMedicationService_Delete_GuestStaysLocal(t *testing.T) {
	ctx := context.Background()
	// no remote expectations
	svc, local, _ := newTestMedicationService(t, "")
	require.NoError(t, local.Medications().Upsert(ctx, aspirin()))

	require.NoError(t, svc.Delete(ctx, "m1"))

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.Get(ctx, "m1")
	assert.ErrorIs(t, err, ErrMedicationNotFound)
}
