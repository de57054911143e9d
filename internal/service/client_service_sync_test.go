// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/echo"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/mock"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var takenAt = time.Date(2026, 1, 1, 9, 5, 0, 0, time.UTC)

// stubSession is a fixed owner.
type stubSession struct {
	ownerID string
}

func (s stubSession) Restore(context.Context) (bool, error)          { return s.ownerID != "", nil }
func (s stubSession) SignIn(context.Context, string) (string, error) { return s.ownerID, nil }
func (s stubSession) SignOut(context.Context) error                  { return nil }
func (s stubSession) OwnerID() (string, bool)                        { return s.ownerID, s.ownerID != "" }

func aspirin() models.Medication {
	return models.Medication{
		ID:            "m1",
		Name:          "Aspirin",
		Dosage:        "100mg",
		ScheduledTime: "09:00",
		Accent:        models.AccentLime,
	}
}

func dirtyLog(id, medicationID string) models.MedicationLog {
	return models.MedicationLog{
		ID:           id,
		MedicationID: medicationID,
		TakenAt:      takenAt,
		UploadedAt:   takenAt,
		TimeSource:   models.TimeSourceSystem,
		Status:       models.LogStatusOnTime,
		SyncState:    models.SyncStateDirty,
	}
}

func newMockedSyncService(t *testing.T, ownerID string) (*clientSyncService, store.LocalStore, *mock.MockRemoteStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	local := store.NewMemoryLocalStore()
	gate := echo.NewGate(0)
	session := stubSession{ownerID: ownerID}
	device := NewDeviceIdentity(local.Meta(), "device_test")
	settings := NewClientSettingsService(local.Meta(), remote, session, device, gate, logger.Nop())

	svc := NewClientSyncService(local, remote, session, device, settings, gate, "default", logger.Nop())
	return svc.(*clientSyncService), local, remote
}

func TestClientSyncService_GuestMode_SkipsWithoutTouchingState(t *testing.T) {
	ctx := context.Background()
	// no expectations: any remote call fails the test
	svc, local, _ := newMockedSyncService(t, "")

	require.NoError(t, local.Medications().Upsert(ctx, aspirin()))
	require.NoError(t, local.Logs().Upsert(ctx, dirtyLog("l1", "m1")))

	for name, op := range map[string]func(context.Context) (models.SyncReport, error){
		"push":     svc.PushLocalChanges,
		"pull":     svc.PullRemoteChanges,
		"fullsync": svc.FullSync,
	} {
		t.Run(name, func(t *testing.T) {
			report, err := op(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.SyncSkippedUnauthenticated, report.Status)
			assert.True(t, report.Skipped())
		})
	}

	l, err := local.Logs().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateDirty, l.SyncState)

	res := svc.CloudSaveV2(ctx)
	assert.False(t, res.Success)
	assert.Equal(t, models.SaveFailureAuthMissing, res.Failure)

	_, err = svc.CloudLoadV2(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestClientSyncService_InFlight(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMockedSyncService(t, "u1")

	svc.running.Store(true)

	report, err := svc.PushLocalChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncSkippedInFlight, report.Status)

	report, err = svc.PullRemoteChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncSkippedInFlight, report.Status)

	report, err = svc.FullSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncSkippedInFlight, report.Status)

	err = svc.ApplySnapshot(ctx, models.SnapshotPayload{})
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestClientSyncService_Push_PerRecordFailure(t *testing.T) {
	ctx := context.Background()
	svc, local, remote := newMockedSyncService(t, "u1")

	second := aspirin()
	second.ID = "m2"
	require.NoError(t, local.Medications().Upsert(ctx, aspirin(), second))

	synced := dirtyLog("l3", "m1")
	synced.SyncState = models.SyncStateSynced
	require.NoError(t, local.Logs().Upsert(ctx, dirtyLog("l1", "m1"), dirtyLog("l2", "m1"), synced))

	remote.EXPECT().UpsertMedication(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m models.Medication) error {
			assert.Equal(t, "u1", m.OwnerID)
			assert.Equal(t, "device_test", m.DeviceID)
			if m.ID == "m2" {
				return errors.New("conflict")
			}
			return nil
		}).Times(2)

	remote.EXPECT().UpsertLog(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l models.MedicationLog) error {
			assert.NotEqual(t, "l3", l.ID, "synced logs are not pushed")
			assert.Equal(t, "device_test", l.SourceDevice)
			if l.ID == "l2" {
				return errors.New("network down")
			}
			return nil
		}).Times(2)

	report, err := svc.PushLocalChanges(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.SyncCompleted, report.Status)
	assert.Equal(t, 1, report.MedicationsPushed)
	assert.Equal(t, 1, report.MedicationsFailed)
	assert.Equal(t, 1, report.LogsPushed)
	assert.Equal(t, 1, report.LogsFailed)

	l1, err := local.Logs().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateSynced, l1.SyncState)

	l2, err := local.Logs().GetByID(ctx, "l2")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateDirty, l2.SyncState)
}

func TestClientSyncService_Push_PhotoUploadFailureLeavesDirty(t *testing.T) {
	ctx := context.Background()
	svc, local, remote := newMockedSyncService(t, "u1")

	l := dirtyLog("l1", "m1")
	l.Photo = []byte("jpeg")
	require.NoError(t, local.Medications().Upsert(ctx, aspirin()))
	require.NoError(t, local.Logs().Upsert(ctx, l))

	remote.EXPECT().UpsertMedication(gomock.Any(), gomock.Any()).Return(nil)
	remote.EXPECT().UploadPhoto(gomock.Any(), utils.ContentHash([]byte("jpeg")), []byte("jpeg")).
		Return(models.PhotoRef{}, errors.New("bucket unavailable"))

	report, err := svc.PushLocalChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.LogsFailed)

	got, err := local.Logs().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateDirty, got.SyncState)
	assert.Empty(t, got.ImagePath)
}

func TestClientSyncService_Pull_ReadFailureLeavesLocalUntouched(t *testing.T) {
	ctx := context.Background()
	svc, local, remote := newMockedSyncService(t, "u1")

	remote.EXPECT().ListMedications(gomock.Any()).Return([]models.Medication{aspirin()}, nil)
	remote.EXPECT().ListLogs(gomock.Any()).Return(nil, errors.New("timeout"))

	_, err := svc.PullRemoteChanges(ctx)
	require.Error(t, err)

	all, err := local.Medications().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.False(t, svc.running.Load(), "in-flight slot released")
}

func TestClientSyncService_CloudSaveV2_RemoteWriteError(t *testing.T) {
	ctx := context.Background()
	svc, _, remote := newMockedSyncService(t, "u1")

	remote.EXPECT().UpsertSnapshot(gomock.Any(), gomock.Any()).Return(models.AppSnapshot{}, errors.New("500"))

	res := svc.CloudSaveV2(ctx)
	assert.False(t, res.Success)
	assert.Equal(t, models.SaveFailureRemoteWrite, res.Failure)
	assert.NotEmpty(t, res.Message)
}

func TestClientSyncService_Scenario_TwoDevices(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()

	a := newTestDevice(t, backend, "device_a")
	b := newTestDevice(t, backend, "device_b")
	a.signIn(t, "u1")
	b.signIn(t, "u1")

	_, err := a.services.Medications.Create(ctx, aspirin())
	require.NoError(t, err)

	report, err := a.services.Sync.PushLocalChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MedicationsPushed)

	_, err = b.services.Sync.PullRemoteChanges(ctx)
	require.NoError(t, err)

	m, err := b.local.Medications().GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", m.Name)
	assert.Equal(t, "device_a", m.DeviceID)

	require.NoError(t, a.local.Logs().Upsert(ctx, dirtyLog("l1", "m1")))

	_, err = a.services.Sync.PushLocalChanges(ctx)
	require.NoError(t, err)

	onA, err := a.local.Logs().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateSynced, onA.SyncState)

	_, err = b.services.Sync.PullRemoteChanges(ctx)
	require.NoError(t, err)

	onB, err := b.local.Logs().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateSynced, onB.SyncState)
	assert.Equal(t, takenAt, onB.TakenAt)
	assert.Equal(t, "device_a", onB.SourceDevice)
}

func TestClientSyncService_Push_Idempotent(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	a := newTestDevice(t, backend, "device_a")
	a.signIn(t, "u1")

	_, err := a.services.Medications.Create(ctx, aspirin())
	require.NoError(t, err)
	_, err = a.services.Logs.Record(ctx, LogInput{MedicationID: "m1", TakenAt: takenAt, TimeSource: models.TimeSourceExif})
	require.NoError(t, err)

	_, err = a.services.Sync.PushLocalChanges(ctx)
	require.NoError(t, err)

	medsFirst, _ := a.remote.ListMedications(ctx)
	logsFirst, _ := a.remote.ListLogs(ctx)

	report, err := a.services.Sync.PushLocalChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.LogsPushed, "nothing dirty on second run")

	medsSecond, _ := a.remote.ListMedications(ctx)
	logsSecond, _ := a.remote.ListLogs(ctx)
	assert.Equal(t, medsFirst, medsSecond)
	assert.Equal(t, logsFirst, logsSecond)
}

func TestClientSyncService_DirtyFlagDiscipline(t *testing.T) {
	ctx := context.Background()
	a := newTestDevice(t, newFakeBackend(), "device_a")
	a.signIn(t, "u1")

	_, err := a.services.Medications.Create(ctx, aspirin())
	require.NoError(t, err)
	l, err := a.services.Logs.Record(ctx, LogInput{MedicationID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateDirty, l.SyncState)

	_, err = a.services.Sync.PushLocalChanges(ctx)
	require.NoError(t, err)
	got, err := a.local.Logs().GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateSynced, got.SyncState)

	_, err = a.services.Sync.PullRemoteChanges(ctx)
	require.NoError(t, err)
	got, err = a.local.Logs().GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateSynced, got.SyncState)

	dirty, err := a.local.Logs().GetWhere(ctx, store.FieldSyncState, models.SyncStateDirty)
	require.NoError(t, err)
	assert.Empty(t, dirty)
}

func TestClientSyncService_Pull_KeepsPhotoAndDropsOrphans(t *testing.T) {
	ctx := context.Background()
	a := newTestDevice(t, newFakeBackend(), "device_a")
	a.signIn(t, "u1")

	_, err := a.services.Medications.Create(ctx, aspirin())
	require.NoError(t, err)
	l, err := a.services.Logs.Record(ctx, LogInput{MedicationID: "m1", Photo: []byte("jpeg")})
	require.NoError(t, err)

	orphan := dirtyLog("ghost-log", "ghost")
	orphan.SyncState = models.SyncStateSynced
	require.NoError(t, a.local.Logs().Upsert(ctx, orphan))

	report, err := a.services.Sync.FullSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrphansRemoved)

	got, err := a.local.Logs().GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), got.Photo)
	assert.Equal(t, "photos/"+utils.ContentHash([]byte("jpeg")), got.ImagePath)
	assert.Equal(t, models.SyncStateSynced, got.SyncState)

	// pulled again with the remote copy that carries no bytes
	_, err = a.services.Sync.PullRemoteChanges(ctx)
	require.NoError(t, err)
	got, err = a.local.Logs().GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), got.Photo)

	_, err = a.local.Logs().GetByID(ctx, "ghost-log")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestClientSyncService_RemoteWritesDoNotNotifyObservers(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	a := newTestDevice(t, backend, "device_a")
	b := newTestDevice(t, backend, "device_b")
	a.signIn(t, "u1")
	b.signIn(t, "u1")

	_, err := a.services.Medications.Create(ctx, aspirin())
	require.NoError(t, err)
	_, err = a.services.Logs.Record(ctx, LogInput{MedicationID: "m1"})
	require.NoError(t, err)

	var aNotified, bNotified int
	a.local.Observe(func(context.Context, models.Topic) { aNotified++ })
	b.local.Observe(func(context.Context, models.Topic) { bNotified++ })

	_, err = a.services.Sync.PushLocalChanges(ctx)
	require.NoError(t, err)
	_, err = b.services.Sync.PullRemoteChanges(ctx)
	require.NoError(t, err)

	assert.Zero(t, aNotified, "marking logs synced is bookkeeping")
	assert.Zero(t, bNotified, "pulled writes are remote-originated")
}

func TestClientSyncService_Pull_RaisesGate(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	d := newTestDevice(t, backend, "device_a")
	d.signIn(t, "u1")

	gate := echo.NewGate(time.Hour)
	t.Cleanup(gate.Close)
	svc := NewClientSyncService(d.local, d.remote, d.services.Session, d.services.Device, d.services.Settings, gate, "default", logger.Nop())

	assert.False(t, gate.Raised())
	_, err := svc.PullRemoteChanges(ctx)
	require.NoError(t, err)
	assert.True(t, gate.Raised(), "reset is deferred by the grace delay")
}

func TestClientSyncService_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := newTestDevice(t, newFakeBackend(), "device_a")
	a.signIn(t, "u1")

	_, err := a.services.Medications.Create(ctx, aspirin())
	require.NoError(t, err)
	_, err = a.services.Logs.Record(ctx, LogInput{MedicationID: "m1", Photo: []byte("png")})
	require.NoError(t, err)
	require.NoError(t, a.local.Logs().Upsert(ctx, dirtyLog("l-dirty", "m1")))

	savedMeds, err := a.local.Medications().GetAll(ctx)
	require.NoError(t, err)
	savedLogs, err := a.local.Logs().GetAll(ctx)
	require.NoError(t, err)

	res := a.services.Sync.CloudSaveV2(ctx)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, int64(1), res.Version)

	payload, err := a.services.Sync.CloudLoadV2(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotSchemaVersion, payload.Version)

	// diverge before restoring
	require.NoError(t, a.services.Medications.Delete(ctx, "m1"))
	other := aspirin()
	other.ID = "m9"
	_, err = a.services.Medications.Create(ctx, other)
	require.NoError(t, err)

	require.NoError(t, a.services.Sync.ApplySnapshot(ctx, payload))

	gotMeds, err := a.local.Medications().GetAll(ctx)
	require.NoError(t, err)
	gotLogs, err := a.local.Logs().GetAll(ctx)
	require.NoError(t, err)

	assert.ElementsMatch(t, savedMeds, gotMeds)
	assert.ElementsMatch(t, savedLogs, gotLogs)

	restored, err := a.local.Logs().GetByID(ctx, "l-dirty")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateDirty, restored.SyncState, "dirty flags are restored verbatim")

	res = a.services.Sync.CloudSaveV2(ctx)
	require.True(t, res.Success)
	assert.Equal(t, int64(2), res.Version)
}

func TestClientSyncService_CloudLoadV2_NotFoundDiffersFromEmpty(t *testing.T) {
	ctx := context.Background()
	a := newTestDevice(t, newFakeBackend(), "device_a")
	a.signIn(t, "u1")

	_, err := a.services.Sync.CloudLoadV2(ctx)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	res := a.services.Sync.CloudSaveV2(ctx)
	require.True(t, res.Success)

	payload, err := a.services.Sync.CloudLoadV2(ctx)
	require.NoError(t, err)
	assert.Empty(t, payload.Medications)
	assert.Empty(t, payload.MedicationLogs)
	require.NotNil(t, payload.UserSettings)
}

func TestClientSyncService_ApplySnapshot_RestoresSettings(t *testing.T) {
	ctx := context.Background()
	a := newTestDevice(t, newFakeBackend(), "device_a")

	payload := models.SnapshotPayload{
		Medications:  []models.Medication{aspirin()},
		UserSettings: &models.UserSettings{Theme: "dark", ReminderAdvanceMinutes: 15},
	}
	require.NoError(t, a.services.Sync.ApplySnapshot(ctx, payload))

	settings, err := a.services.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, 15, settings.ReminderAdvanceMinutes)
}
