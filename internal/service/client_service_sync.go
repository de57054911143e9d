// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/echo"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
)

type clientSyncService struct {
	local    store.LocalStore
	remote   adapter.RemoteStore
	session  ClientSessionService
	device   DeviceIdentity
	settings ClientSettingsService
	gate     *echo.Gate

	snapshotKey string

	// running is the single in-flight slot shared by push, pull, full sync
	// and snapshot restore.
	running atomic.Bool

	now    func() time.Time
	logger *logger.Logger
}

// NewClientSyncService wires the sync engine. Writes applying remote state
// run inside gate.
func NewClientSyncService(
	local store.LocalStore,
	remote adapter.RemoteStore,
	session ClientSessionService,
	device DeviceIdentity,
	settings ClientSettingsService,
	gate *echo.Gate,
	snapshotKey string,
	log *logger.Logger,
) ClientSyncService {
	return &clientSyncService{
		local:       local,
		remote:      remote,
		session:     session,
		device:      device,
		settings:    settings,
		gate:        gate,
		snapshotKey: snapshotKey,
		now:         time.Now,
		logger:      log,
	}
}

// begin is the guard evaluated at the top of push, pull and full sync. A
// non-nil release must be called when the operation ends.
func (s *clientSyncService) begin() (ownerID string, report models.SyncReport, release func()) {
	ownerID, ok := s.session.OwnerID()
	if !ok {
		return "", models.SyncReport{Status: models.SyncSkippedUnauthenticated}, nil
	}

	if !s.running.CompareAndSwap(false, true) {
		return "", models.SyncReport{Status: models.SyncSkippedInFlight}, nil
	}

	return ownerID, models.SyncReport{Status: models.SyncCompleted}, func() { s.running.Store(false) }
}

func (s *clientSyncService) PushLocalChanges(ctx context.Context) (models.SyncReport, error) {
	ownerID, report, release := s.begin()
	if release == nil {
		return report, nil
	}
	defer release()

	return s.push(ctx, ownerID, report)
}

func (s *clientSyncService) PullRemoteChanges(ctx context.Context) (models.SyncReport, error) {
	ownerID, report, release := s.begin()
	if release == nil {
		return report, nil
	}
	defer release()

	return s.pull(ctx, ownerID, report)
}

func (s *clientSyncService) FullSync(ctx context.Context) (models.SyncReport, error) {
	ownerID, report, release := s.begin()
	if release == nil {
		return report, nil
	}
	defer release()

	report, pullErr := s.pull(ctx, ownerID, report)
	if pullErr != nil {
		loggerFor(ctx, s.logger).Warn().Err(pullErr).Str("func", "clientSyncService.FullSync").Msg("pull failed, pushing anyway")
	}

	report, pushErr := s.push(ctx, ownerID, report)

	return report, errors.Join(pullErr, pushErr)
}

func (s *clientSyncService) push(ctx context.Context, ownerID string, report models.SyncReport) (models.SyncReport, error) {
	log := loggerFor(ctx, s.logger)

	deviceID, err := s.device.DeviceID(ctx)
	if err != nil {
		return report, fmt.Errorf("push: %w", err)
	}
	ctx = utils.WithDeviceID(ctx, deviceID)

	medications, err := s.local.Medications().GetAll(ctx)
	if err != nil {
		return report, fmt.Errorf("push: read medications: %w", err)
	}

	for _, m := range medications {
		m.OwnerID = ownerID
		m.DeviceID = deviceID

		if err := s.remote.UpsertMedication(ctx, m); err != nil {
			log.Err(err).Str("func", "clientSyncService.push").Str("medication_id", m.ID).Msg("failed to push medication")
			report.MedicationsFailed++
			continue
		}
		report.MedicationsPushed++
	}

	dirty, err := s.local.Logs().GetWhere(ctx, store.FieldSyncState, models.SyncStateDirty)
	if err != nil {
		return report, fmt.Errorf("push: read dirty logs: %w", err)
	}

	// bookkeeping writes must not look like user mutations
	syncCtx := echo.WithOrigin(ctx, echo.OriginSync)

	for _, l := range dirty {
		pushed, err := s.pushLog(ctx, l, ownerID, deviceID)
		if err != nil {
			log.Err(err).Str("func", "clientSyncService.push").Str("log_id", l.ID).Msg("failed to push log, left dirty")
			report.LogsFailed++
			continue
		}

		pushed.SyncState = models.SyncStateSynced
		if err := s.local.Logs().Upsert(syncCtx, pushed); err != nil {
			log.Err(err).Str("func", "clientSyncService.push").Str("log_id", l.ID).Msg("pushed log could not be marked synced")
			report.LogsFailed++
			continue
		}
		report.LogsPushed++
	}

	log.Info().
		Int("medications_pushed", report.MedicationsPushed).
		Int("medications_failed", report.MedicationsFailed).
		Int("logs_pushed", report.LogsPushed).
		Int("logs_failed", report.LogsFailed).
		Msg("push finished")

	return report, nil
}

// pushLog uploads a pending photo, then the log. The returned log carries
// the remote image path and the push tags.
func (s *clientSyncService) pushLog(ctx context.Context, l models.MedicationLog, ownerID, deviceID string) (models.MedicationLog, error) {
	if l.NeedsPhotoUpload() {
		hash := l.ImageHash
		if hash == "" {
			hash = utils.ContentHash(l.Photo)
		}

		ref, err := s.remote.UploadPhoto(ctx, hash, l.Photo)
		if err != nil {
			return l, fmt.Errorf("upload photo: %w", err)
		}
		l.ImageHash = hash
		l.ImagePath = ref.ImagePath
	}

	l.OwnerID = ownerID
	l.SourceDevice = deviceID

	return l, s.remote.UpsertLog(ctx, l)
}

func (s *clientSyncService) pull(ctx context.Context, ownerID string, report models.SyncReport) (models.SyncReport, error) {
	log := loggerFor(ctx, s.logger)

	// both collections are fetched before anything is written
	medications, err := s.remote.ListMedications(ctx)
	if err != nil {
		return report, fmt.Errorf("pull: list medications: %w", err)
	}
	logs, err := s.remote.ListLogs(ctx)
	if err != nil {
		return report, fmt.Errorf("pull: list logs: %w", err)
	}

	err = s.gate.Run(ctx, func(ctx context.Context) error {
		if err := s.local.Medications().Upsert(ctx, medications...); err != nil {
			return fmt.Errorf("apply medications: %w", err)
		}

		for i := range logs {
			logs[i].SyncState = models.SyncStateSynced
			s.keepLocalPhoto(ctx, &logs[i])
		}
		if err := s.local.Logs().Upsert(ctx, logs...); err != nil {
			return fmt.Errorf("apply logs: %w", err)
		}

		removed, err := s.local.DeleteOrphanLogs(ctx)
		if err != nil {
			log.Err(err).Str("func", "clientSyncService.pull").Msg("orphan log cleanup failed")
		}
		report.OrphansRemoved += int(removed)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("pull: %w", err)
	}

	report.MedicationsPulled += len(medications)
	report.LogsPulled += len(logs)

	log.Info().
		Str("owner_id", ownerID).
		Int("medications_pulled", len(medications)).
		Int("logs_pulled", len(logs)).
		Int("orphans_removed", report.OrphansRemoved).
		Msg("pull finished")

	return report, nil
}

// keepLocalPhoto carries the local photo bytes over to a pulled log of the
// same image. Remote logs only reference their photo.
func (s *clientSyncService) keepLocalPhoto(ctx context.Context, pulled *models.MedicationLog) {
	if pulled.ImageHash == "" {
		return
	}

	current, err := s.local.Logs().GetByID(ctx, pulled.ID)
	if err != nil || current.ImageHash != pulled.ImageHash {
		return
	}
	pulled.Photo = current.Photo
}

func (s *clientSyncService) CloudSaveV2(ctx context.Context) models.SaveResult {
	log := loggerFor(ctx, s.logger)

	if _, ok := s.session.OwnerID(); !ok {
		return models.SaveResult{Failure: models.SaveFailureAuthMissing, Message: ErrUnauthenticated.Error()}
	}

	snapshot, err := s.buildSnapshot(ctx)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.CloudSaveV2").Msg("failed to build snapshot")
		return models.SaveResult{Failure: models.SaveFailureException, Message: err.Error()}
	}

	stored, err := s.remote.UpsertSnapshot(ctx, snapshot)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.CloudSaveV2").Msg("failed to store snapshot")
		return models.SaveResult{Failure: models.SaveFailureRemoteWrite, Message: err.Error()}
	}

	log.Info().Int64("version", stored.Version).Str("key", stored.Key).Msg("snapshot saved")
	return models.SaveResult{Success: true, Version: stored.Version}
}

func (s *clientSyncService) buildSnapshot(ctx context.Context) (models.AppSnapshot, error) {
	deviceID, err := s.device.DeviceID(ctx)
	if err != nil {
		return models.AppSnapshot{}, err
	}

	medications, err := s.local.Medications().GetAll(ctx)
	if err != nil {
		return models.AppSnapshot{}, fmt.Errorf("read medications: %w", err)
	}
	logs, err := s.local.Logs().GetAll(ctx)
	if err != nil {
		return models.AppSnapshot{}, fmt.Errorf("read logs: %w", err)
	}

	payload := models.SnapshotPayload{
		Medications:    medications,
		MedicationLogs: logs,
		Version:        models.SnapshotSchemaVersion,
		Timestamp:      s.now().UTC(),
	}
	if settings, err := s.settings.Get(ctx); err == nil {
		payload.UserSettings = &settings
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return models.AppSnapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}

	return models.AppSnapshot{Key: s.snapshotKey, Payload: raw, UpdatedBy: deviceID}, nil
}

func (s *clientSyncService) CloudLoadV2(ctx context.Context) (models.SnapshotPayload, error) {
	if _, ok := s.session.OwnerID(); !ok {
		return models.SnapshotPayload{}, ErrUnauthenticated
	}

	snapshot, err := s.remote.GetSnapshot(ctx, s.snapshotKey)
	if errors.Is(err, adapter.ErrNotFound) {
		return models.SnapshotPayload{}, ErrSnapshotNotFound
	}
	if err != nil {
		return models.SnapshotPayload{}, fmt.Errorf("load snapshot: %w", err)
	}

	var payload models.SnapshotPayload
	if err := json.Unmarshal(snapshot.Payload, &payload); err != nil {
		return models.SnapshotPayload{}, fmt.Errorf("%w: snapshot payload: %w", ErrInvalidDataProvided, err)
	}

	return payload, nil
}

func (s *clientSyncService) ApplySnapshot(ctx context.Context, payload models.SnapshotPayload) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer s.running.Store(false)

	medications := append([]models.Medication(nil), payload.Medications...)
	logs := append([]models.MedicationLog(nil), payload.MedicationLogs...)

	err := s.gate.Run(ctx, func(ctx context.Context) error {
		if err := s.local.ReplaceAll(ctx, medications, logs); err != nil {
			return err
		}
		if payload.UserSettings != nil {
			return s.settings.Apply(ctx, *payload.UserSettings)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}

	loggerFor(ctx, s.logger).Warn().
		Int("medications", len(medications)).
		Int("logs", len(logs)).
		Msg("local state replaced from snapshot")
	return nil
}
