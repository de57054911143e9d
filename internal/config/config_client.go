package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the remote store address used by the client.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// Token is an optional bearer token to seed the local session with.
	Token string
}

// ClientDB contains local database settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the full sync job runs.
	SyncInterval time.Duration
}

// ClientSync contains the sync core settings.
type ClientSync struct {
	EchoGrace   time.Duration
	DeviceID    string
	SnapshotKey string
}

// ClientLog contains the rotated log file settings.
type ClientLog struct {
	File      string
	MaxSizeMB int
}

// ClientConfig is the client daemon view of [StructuredConfig].
type ClientConfig struct {
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Sync    ClientSync
	Log     ClientLog
}

// GetClientConfig builds and validates the client daemon configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)

	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Token:          cfg.Adapter.Token,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Sync: ClientSync{
			EchoGrace:   cfg.Sync.EchoGrace,
			DeviceID:    cfg.Sync.DeviceID,
			SnapshotKey: cfg.Sync.SnapshotKey,
		},
		Log: ClientLog{
			File:      cfg.Log.File,
			MaxSizeMB: cfg.Log.MaxSizeMB,
		},
	}
}
