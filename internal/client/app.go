package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/echo"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/realtime"
	"github.com/sevenoy/GeminiMeds/internal/service"
	"github.com/sevenoy/GeminiMeds/internal/store"
	"github.com/sevenoy/GeminiMeds/internal/workers"
	"github.com/sevenoy/GeminiMeds/models"
)

const (
	resubscribeBase = time.Second
	resubscribeCap  = time.Minute
)

var (
	errSignedOut   = errors.New("no session")
	errFeedDropped = errors.New("change feed dropped")
)

type App struct {
	local    store.LocalStore
	remote   adapter.RemoteStore
	feed     adapter.Feed
	gate     *echo.Gate
	services *service.ClientServices

	syncInterval time.Duration
	seedToken    string

	listener *realtime.Listener
	mu       sync.Mutex
	handle   *realtime.Handle
	signedIn chan struct{}

	// OnReload is called after a foreign change was applied locally.
	OnReload func(ctx context.Context, topic models.Topic)

	logger *logger.Logger
}

// NewApp opens the local SQLite store and the remote adapters described by
// cfg.
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	local, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, log)
	if err != nil {
		_ = local.Close()
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	feed, err := adapter.NewWebsocketFeed(cfg.Adapter, log)
	if err != nil {
		_ = local.Close()
		return nil, fmt.Errorf("create change feed: %w", err)
	}

	return newApp(local, remote, feed, cfg, log), nil
}

func newApp(local store.LocalStore, remote adapter.RemoteStore, feed adapter.Feed, cfg *config.ClientConfig, log *logger.Logger) *App {
	gate := echo.NewGate(cfg.Sync.EchoGrace)

	return &App{
		local:        local,
		remote:       remote,
		feed:         feed,
		gate:         gate,
		services:     service.NewClientServices(local, remote, gate, cfg.Sync, log),
		syncInterval: cfg.Workers.SyncInterval,
		seedToken:    cfg.Adapter.Token,
		signedIn:     make(chan struct{}, 1),
		logger:       log,
	}
}

// Services exposes the client services to the surrounding application.
func (a *App) Services() *service.ClientServices {
	return a.services
}

// Run starts the daemon and serves until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	defer a.Close()

	return workers.New(
		workers.WorkerFunc(a.runSyncJob),
		workers.WorkerFunc(a.runRealtime),
	).Run(ctx)
}

// Start loads local state, restores or seeds the session and, when signed
// in, runs one pull followed by one push. Local mutations trigger a sync
// cycle from then on.
func (a *App) Start(ctx context.Context) error {
	deviceID, err := a.services.Device.DeviceID(ctx)
	if err != nil {
		return fmt.Errorf("resolve device id: %w", err)
	}

	a.listener = realtime.NewListener(a.feed, deviceID, a.gate, realtime.Callbacks{
		ReloadMedications: a.reloadRecords(models.TopicMedications),
		ReloadLogs:        a.reloadRecords(models.TopicLogs),
		ReloadSettings:    a.reloadSettings,
	}, a.logger)

	medications, err := a.services.Medications.List(ctx)
	if err != nil {
		return fmt.Errorf("load local medications: %w", err)
	}
	logs, err := a.services.Logs.List(ctx)
	if err != nil {
		return fmt.Errorf("load local logs: %w", err)
	}
	a.logger.Info().
		Str("device_id", deviceID).
		Int("medications", len(medications)).
		Int("logs", len(logs)).
		Msg("local state loaded")

	authenticated, err := a.restoreSession(ctx)
	if err != nil {
		return err
	}
	if authenticated {
		a.initialSync(ctx)
	}

	a.local.Observe(func(context.Context, models.Topic) {
		a.services.SyncJob.Trigger()
	})

	return nil
}

func (a *App) restoreSession(ctx context.Context) (bool, error) {
	if a.seedToken != "" {
		if _, err := a.services.Session.SignIn(ctx, a.seedToken); err != nil {
			return false, fmt.Errorf("sign in with configured token: %w", err)
		}
		return true, nil
	}

	restored, err := a.services.Session.Restore(ctx)
	if err != nil {
		return false, fmt.Errorf("restore session: %w", err)
	}
	if !restored {
		a.logger.Info().Msg("no session, running local only")
	}
	return restored, nil
}

// initialSync pulls, pushes, refreshes settings and asks the realtime
// worker to subscribe. Failures leave the device local-only until the next
// cycle.
func (a *App) initialSync(ctx context.Context) {
	if report, err := a.services.Sync.PullRemoteChanges(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("initial pull failed")
	} else {
		a.logger.Info().Any("report", report).Msg("initial pull done")
		a.reloaded(ctx, models.TopicMedications)
	}

	if report, err := a.services.Sync.PushLocalChanges(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("initial push failed")
	} else {
		a.logger.Info().Any("report", report).Msg("initial push done")
	}

	if _, err := a.services.Settings.Reload(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("settings reload failed")
	}

	a.notifySignedIn()
}

// SignIn stores token as the session and runs the sign-in sync.
func (a *App) SignIn(ctx context.Context, token string) error {
	if _, err := a.services.Session.SignIn(ctx, token); err != nil {
		return err
	}

	a.initialSync(ctx)
	return nil
}

// SignOut closes the realtime subscription and forgets the session. Local
// data is kept.
func (a *App) SignOut(ctx context.Context) error {
	a.unsubscribe()
	return a.services.Session.SignOut(ctx)
}

// Close stops background work and releases the local store. Run calls it
// on exit.
func (a *App) Close() error {
	a.unsubscribe()
	a.services.SyncJob.Stop()
	a.gate.Close()
	return a.local.Close()
}

func (a *App) notifySignedIn() {
	select {
	case a.signedIn <- struct{}{}:
	default:
	}
}

func (a *App) runSyncJob(ctx context.Context) error {
	a.services.SyncJob.Start(ctx, a.syncInterval)
	<-ctx.Done()
	a.services.SyncJob.Stop()
	return nil
}

// runRealtime keeps one subscription open while signed in. A dropped feed
// is reopened with capped exponential backoff, followed by a sync cycle to
// catch up on missed events.
func (a *App) runRealtime(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.signedIn:
		}

		backoff := retry.WithCappedDuration(resubscribeCap, retry.NewExponential(resubscribeBase))
		reconnect := false

		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			h, err := a.subscribe(ctx)
			if errors.Is(err, errSignedOut) {
				return nil
			}
			if err != nil {
				a.logger.Warn().Err(err).Msg("realtime subscribe failed, retrying")
				return retry.RetryableError(err)
			}

			if reconnect {
				a.services.SyncJob.Trigger()
			}
			reconnect = true

			select {
			case <-ctx.Done():
				return nil
			case <-h.Done():
			}

			if !a.isCurrent(h) {
				return nil
			}
			a.clearHandle(h)
			return retry.RetryableError(errFeedDropped)
		})
		if err != nil && ctx.Err() == nil {
			a.logger.Error().Err(err).Msg("realtime worker stopped")
		}
	}
}

func (a *App) subscribe(ctx context.Context) (*realtime.Handle, error) {
	if _, ok := a.services.Session.OwnerID(); !ok {
		return nil, errSignedOut
	}

	h, err := a.listener.Subscribe(ctx, a.remote.Token())
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	old := a.handle
	a.handle = h
	a.mu.Unlock()

	_ = old.Unsubscribe()
	return h, nil
}

func (a *App) isCurrent(h *realtime.Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handle == h
}

func (a *App) clearHandle(h *realtime.Handle) {
	a.mu.Lock()
	if a.handle == h {
		a.handle = nil
	}
	a.mu.Unlock()

	_ = h.Unsubscribe()
}

func (a *App) unsubscribe() {
	a.mu.Lock()
	h := a.handle
	a.handle = nil
	a.mu.Unlock()

	if err := h.Unsubscribe(); err != nil {
		a.logger.Warn().Err(err).Msg("realtime unsubscribe failed")
	}
}

// reloadRecords pulls remote state after a foreign write to topic.
func (a *App) reloadRecords(topic models.Topic) func(ctx context.Context) {
	return func(ctx context.Context) {
		report, err := a.services.Sync.PullRemoteChanges(ctx)
		if err != nil {
			a.logger.Warn().Err(err).Str("topic", string(topic)).Msg("reload after foreign change failed")
			return
		}
		if report.Status != models.SyncCompleted {
			return
		}
		a.reloaded(ctx, topic)
	}
}

func (a *App) reloadSettings(ctx context.Context) {
	applied, err := a.services.Settings.Reload(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("settings reload after foreign change failed")
		return
	}
	if applied {
		a.reloaded(ctx, models.TopicSettings)
	}
}

func (a *App) reloaded(ctx context.Context, topic models.Topic) {
	if a.OnReload != nil {
		a.OnReload(ctx, topic)
	}
}
