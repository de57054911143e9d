package service

import (
	"context"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/echo"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
)

type ClientServices struct {
	Session     ClientSessionService
	Device      DeviceIdentity
	Medications ClientMedicationService
	Logs        ClientLogService
	Settings    ClientSettingsService
	Sync        ClientSyncService
	SyncJob     ClientSyncJob
}

func NewClientServices(
	local store.LocalStore,
	remote adapter.RemoteStore,
	gate *echo.Gate,
	cfg config.ClientSync,
	log *logger.Logger,
) *ClientServices {
	session := NewClientSessionService(local.Meta(), remote, log)
	device := NewDeviceIdentity(local.Meta(), cfg.DeviceID)
	settings := NewClientSettingsService(local.Meta(), remote, session, device, gate, log)
	syncSvc := NewClientSyncService(local, remote, session, device, settings, gate, cfg.SnapshotKey, log)

	return &ClientServices{
		Session:     session,
		Device:      device,
		Medications: NewClientMedicationService(local, remote, session, device, log),
		Logs:        NewClientLogService(local, session, device, log),
		Settings:    settings,
		Sync:        syncSvc,
		SyncJob:     NewClientSyncJob(syncSvc, log),
	}
}

// loggerFor returns the logger carried by ctx, or fallback.
func loggerFor(ctx context.Context, fallback *logger.Logger) *logger.Logger {
	return logger.FromContext(logger.Ensure(ctx, fallback))
}
