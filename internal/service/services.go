package service

import (
	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/models"
)

type Services struct {
	AuthService       AuthService
	MedicationService MedicationService
	LogService        LogService
	SnapshotService   SnapshotService
	SettingsService   SettingsService
	PhotoService      PhotoService
	AppInfoService    AppInfoService
}

// NewServices builds the server services. A nil publisher disables change
// events.
func NewServices(
	storages *store.Storages,
	photos store.PhotoStore,
	publisher ChangePublisher,
	cfg config.App,
	build models.AppBuildInfo,
	logger *logger.Logger,
) (*Services, error) {
	if publisher == nil {
		publisher = noopPublisher{}
	}

	appInfo, err := NewAppInfoService(cfg, build, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:       NewAuthService(cfg, logger),
		MedicationService: NewMedicationValidationService().Wrap(NewMedicationService(storages.Medications, publisher, logger)),
		LogService:        NewLogValidationService().Wrap(NewLogService(storages.Logs, publisher, logger)),
		SnapshotService:   NewSnapshotService(storages.Snapshots, logger),
		SettingsService:   NewSettingsService(storages.Settings, publisher, logger),
		PhotoService:      NewPhotoService(photos, logger),
		AppInfoService:    appInfo,
	}, nil
}
