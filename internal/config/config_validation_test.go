package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validClientConfig() *ClientConfig {
	return newClientConfig(&StructuredConfig{
		Storage: Storage{DB: DB{DSN: "meds.db"}},
		Adapter: Adapter{HTTPAddress: "http://localhost:8080", RequestTimeout: time.Second},
		Workers: Workers{SyncInterval: time.Minute},
		Sync:    Sync{EchoGrace: 2 * time.Second, SnapshotKey: "default"},
	})
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ClientConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(c *ClientConfig) {}},
		{name: "empty dsn", mutate: func(c *ClientConfig) { c.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "memory dsn", mutate: func(c *ClientConfig) { c.Storage.DB.DSN = ":memory:" }, wantErr: ErrInvalidStorageConfigs},
		{name: "no remote", mutate: func(c *ClientConfig) { c.Adapter.HTTPAddress = "" }, wantErr: ErrInvalidAdapterConfigs},
		{name: "zero timeout", mutate: func(c *ClientConfig) { c.Adapter.RequestTimeout = 0 }, wantErr: ErrInvalidAdapterConfigs},
		{name: "zero interval", mutate: func(c *ClientConfig) { c.Workers.SyncInterval = 0 }, wantErr: ErrInvalidWorkerConfigs},
		{name: "negative grace", mutate: func(c *ClientConfig) { c.Sync.EchoGrace = -time.Second }, wantErr: ErrInvalidSyncConfigs},
		{name: "zero grace allowed", mutate: func(c *ClientConfig) { c.Sync.EchoGrace = 0 }},
		{name: "empty slot", mutate: func(c *ClientConfig) { c.Sync.SnapshotKey = "" }, wantErr: ErrInvalidSyncConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServerConfig_Validate(t *testing.T) {
	base := func() *ServerConfig {
		return newServerConfig(&StructuredConfig{
			App:     App{TokenSignKey: "secret"},
			Storage: Storage{DB: DB{DSN: "postgres://localhost/meds"}, Photos: Photos{Dir: "/tmp/photos"}},
			Server:  Server{HTTPAddress: "localhost:8080"},
		})
	}

	assert.NoError(t, base().validate())

	noKey := base()
	noKey.App.TokenSignKey = ""
	assert.ErrorIs(t, noKey.validate(), ErrInvalidAppConfigs)

	noPhotos := base()
	noPhotos.Storage.Photos.Dir = ""
	assert.ErrorIs(t, noPhotos.validate(), ErrInvalidPhotoStoreConfigs)

	s3 := base()
	s3.Storage.Photos.Dir = ""
	s3.Storage.Photos.S3.Bucket = "photos"
	assert.True(t, s3.UsesS3())
	assert.NoError(t, s3.validate())

	noAddr := base()
	noAddr.Server.HTTPAddress = ""
	assert.ErrorIs(t, noAddr.validate(), ErrInvalidServerConfigs)
}
