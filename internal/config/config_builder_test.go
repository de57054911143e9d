package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "flags"}},
		&StructuredConfig{App: App{Version: "env", TokenIssuer: "env-issuer"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "flags", cfg.App.Version)
	assert.Equal(t, "env-issuer", cfg.App.TokenIssuer)
}

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("APP_VERSION", "env-version")
	t.Setenv("SYNC_ECHO_GRACE", "3s")

	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, 3*time.Second, b.configs[0].Sync.EchoGrace)
}

func TestWithFlags_InvalidFlagSetsError(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-a", "not-an-address"})
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

func TestWithJSON(t *testing.T) {
	t.Run("no path is a no-op", func(t *testing.T) {
		b := newConfigBuilder()
		b.configs = append(b.configs, &StructuredConfig{})
		b.withJSON()

		assert.Len(t, b.configs, 1)
		assert.NoError(t, b.err)
	})

	t.Run("appends parsed file", func(t *testing.T) {
		payload := StructuredJSONConfig{}
		payload.App.Version = "json-version"
		payload.Sync.SnapshotKey = "json-slot"
		path := writeTempJSONConfig(t, payload)

		b := newConfigBuilder()
		b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
		b.withJSON()

		require.NoError(t, b.err)
		require.Len(t, b.configs, 2)
		assert.Equal(t, "json-version", b.configs[1].App.Version)
		assert.Equal(t, "json-slot", b.configs[1].Sync.SnapshotKey)
	})

	t.Run("missing file sets error", func(t *testing.T) {
		b := newConfigBuilder()
		b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/nonexistent/config.json"})
		b.withJSON()

		assert.Error(t, b.err)
	})
}

func TestLoadStructuredConfig_Precedence(t *testing.T) {
	// Arrange
	payload := StructuredJSONConfig{}
	payload.Adapter.HTTPAddress = "http://json:8080"
	payload.Storage.DB.DSN = "json.db"
	path := writeTempJSONConfig(t, payload)

	t.Setenv("ADAPTER_ADDRESS", "http://env:8080")
	t.Setenv("CONFIG", path)

	// Act
	cfg, err := loadStructuredConfig([]string{"-remote", "http://flag:8080"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "json.db", cfg.Storage.DB.DSN)
	assert.Equal(t, DefaultEchoGrace, cfg.Sync.EchoGrace)
	assert.Equal(t, DefaultSnapshotKey, cfg.Sync.SnapshotKey)
	assert.Equal(t, DefaultSyncInterval, cfg.Workers.SyncInterval)
}
