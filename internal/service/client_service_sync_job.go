package service

import (
	"context"
	"sync"
	"time"

	"github.com/sevenoy/GeminiMeds/internal/logger"
)

// DefaultSyncInterval is used when the job is started without an interval.
const DefaultSyncInterval = 5 * time.Minute

type clientSyncJob struct {
	syncService ClientSyncService
	logger      *logger.Logger

	// trigger holds at most one pending request.
	trigger chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that calls syncService.FullSync on a
// ticker and on Trigger. The job is idle until Start is called.
func NewClientSyncJob(syncService ClientSyncService, log *logger.Logger) ClientSyncJob {
	return &clientSyncJob{
		syncService: syncService,
		logger:      log,
		trigger:     make(chan struct{}, 1),
	}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that calls FullSync every interval and
// whenever Trigger is called. The goroutine exits when ctx is cancelled or
// Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.run(jobCtx, "tick")
			case <-j.trigger:
				j.run(jobCtx, "trigger")
			}
		}
	}()
}

func (j *clientSyncJob) run(ctx context.Context, reason string) {
	report, err := j.syncService.FullSync(ctx)
	if err != nil {
		j.logger.Err(err).Str("func", "clientSyncJob.run").Str("reason", reason).Msg("sync cycle failed")
		return
	}

	j.logger.Debug().Str("reason", reason).Str("status", string(report.Status)).Msg("sync cycle finished")
}

// Trigger implements ClientSyncJob. It never blocks.
func (j *clientSyncJob) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
