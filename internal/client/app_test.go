package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/mock"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/utils"
	"github.com/sevenoy/GeminiMeds/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testDeviceID = "device_a"

func testClientConfig(token string) *config.ClientConfig {
	return &config.ClientConfig{
		Adapter: config.ClientAdapter{Token: token},
		Workers: config.ClientWorkers{SyncInterval: time.Hour},
		Sync: config.ClientSync{
			DeviceID:    testDeviceID,
			SnapshotKey: "default",
		},
	}
}

func signedToken(t *testing.T, ownerID string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("geminimeds-test", ownerID, time.Hour, "test-secret")
	require.NoError(t, err)
	return token.SignedString
}

// expectEmptyRemote lets the sync core talk to a remote store that holds
// nothing for the owner.
func expectEmptyRemote(remote *mock.MockRemoteStore, token string) {
	remote.EXPECT().SetToken(gomock.Any()).AnyTimes()
	remote.EXPECT().Token().Return(token).AnyTimes()
	remote.EXPECT().ListMedications(gomock.Any()).Return(nil, nil).AnyTimes()
	remote.EXPECT().ListLogs(gomock.Any()).Return(nil, nil).AnyTimes()
	remote.EXPECT().GetSettings(gomock.Any()).Return(models.UserSettings{}, adapter.ErrNotFound).AnyTimes()
	remote.EXPECT().GetSnapshot(gomock.Any(), gomock.Any()).Return(models.AppSnapshot{}, adapter.ErrNotFound).AnyTimes()
	remote.EXPECT().UpsertSnapshot(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s models.AppSnapshot) (models.AppSnapshot, error) { return s, nil }).
		AnyTimes()
}

func foreignMedicationUpdate() models.ChangeEvent {
	return models.ChangeEvent{
		Topic:   models.TopicMedications,
		Type:    models.EventUpdate,
		OwnerID: "u1",
		Record:  json.RawMessage(`{"id":"m1","device_id":"device_b"}`),
	}
}

func TestApp_StartWithoutSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	feed := mock.NewMockFeed(ctrl)

	app := newApp(store.NewMemoryLocalStore(), remote, feed, testClientConfig(""), logger.Nop())
	t.Cleanup(func() { _ = app.Close() })

	require.NoError(t, app.Start(context.Background()))

	_, ok := app.Services().Session.OwnerID()
	assert.False(t, ok)
	assert.Len(t, app.signedIn, 0, "local-only start must not wake the realtime worker")
}

func TestApp_StartWithConfiguredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	feed := mock.NewMockFeed(ctrl)

	token := signedToken(t, "u1")
	expectEmptyRemote(remote, token)

	app := newApp(store.NewMemoryLocalStore(), remote, feed, testClientConfig(token), logger.Nop())
	t.Cleanup(func() { _ = app.Close() })

	require.NoError(t, app.Start(context.Background()))

	owner, ok := app.Services().Session.OwnerID()
	require.True(t, ok)
	assert.Equal(t, "u1", owner)
	assert.Len(t, app.signedIn, 1)
}

func TestApp_InitialPullNotifiesReload(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	feed := mock.NewMockFeed(ctrl)

	token := signedToken(t, "u1")
	expectEmptyRemote(remote, token)

	app := newApp(store.NewMemoryLocalStore(), remote, feed, testClientConfig(token), logger.Nop())
	t.Cleanup(func() { _ = app.Close() })

	var topics []models.Topic
	app.OnReload = func(_ context.Context, topic models.Topic) { topics = append(topics, topic) }

	require.NoError(t, app.Start(context.Background()))
	assert.Equal(t, []models.Topic{models.TopicMedications}, topics)
}

func TestApp_StartWithBadToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	feed := mock.NewMockFeed(ctrl)

	app := newApp(store.NewMemoryLocalStore(), remote, feed, testClientConfig("not-a-jwt"), logger.Nop())
	t.Cleanup(func() { _ = app.Close() })

	err := app.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configured token")
}

func TestApp_RealtimeReloadsOnForeignWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	feed := mock.NewMockFeed(ctrl)
	sub := mock.NewMockSubscription(ctrl)

	token := signedToken(t, "u1")
	expectEmptyRemote(remote, token)

	events := make(chan models.ChangeEvent, 1)
	feed.EXPECT().Subscribe(gomock.Any(), token).Return(sub, nil)
	sub.EXPECT().Events().Return((<-chan models.ChangeEvent)(events))
	sub.EXPECT().Close().Return(nil).AnyTimes()

	app := newApp(store.NewMemoryLocalStore(), remote, feed, testClientConfig(token), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, app.Start(ctx))

	reloaded := make(chan models.Topic, 4)
	app.OnReload = func(_ context.Context, topic models.Topic) { reloaded <- topic }

	done := make(chan error, 1)
	go func() { done <- app.runRealtime(ctx) }()

	require.Eventually(t, func() bool {
		app.mu.Lock()
		defer app.mu.Unlock()
		return app.handle != nil
	}, time.Second, 10*time.Millisecond)

	events <- foreignMedicationUpdate()

	select {
	case topic := <-reloaded:
		assert.Equal(t, models.TopicMedications, topic)
	case <-time.After(time.Second):
		t.Fatal("foreign write did not trigger a reload")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("realtime worker did not stop")
	}
	require.NoError(t, app.Close())
}

func TestApp_SignOutClosesSubscription(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	feed := mock.NewMockFeed(ctrl)
	sub := mock.NewMockSubscription(ctrl)

	token := signedToken(t, "u1")
	expectEmptyRemote(remote, token)

	events := make(chan models.ChangeEvent)
	feed.EXPECT().Subscribe(gomock.Any(), token).Return(sub, nil)
	sub.EXPECT().Events().Return((<-chan models.ChangeEvent)(events))
	sub.EXPECT().Close().DoAndReturn(func() error {
		return nil
	}).MinTimes(1)

	app := newApp(store.NewMemoryLocalStore(), remote, feed, testClientConfig(""), logger.Nop())
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.SignIn(ctx, token))

	go func() { _ = app.runRealtime(ctx) }()

	require.Eventually(t, func() bool {
		app.mu.Lock()
		defer app.mu.Unlock()
		return app.handle != nil
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, app.SignOut(ctx))

	_, ok := app.Services().Session.OwnerID()
	assert.False(t, ok)

	app.mu.Lock()
	assert.Nil(t, app.handle)
	app.mu.Unlock()
}

func TestApp_SubscribeRequiresSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	feed := mock.NewMockFeed(ctrl)

	app := newApp(store.NewMemoryLocalStore(), remote, feed, testClientConfig(""), logger.Nop())
	t.Cleanup(func() { _ = app.Close() })
	require.NoError(t, app.Start(context.Background()))

	_, err := app.subscribe(context.Background())
	assert.True(t, errors.Is(err, errSignedOut))
}
