// Package realtime reacts to foreign writes reported by the remote change
// feed. Events caused by this device, either tagged with its device id or
// arriving while the echo gate is raised, are dropped before dispatch.
package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/sevenoy/GeminiMeds/internal/adapter"
	"github.com/sevenoy/GeminiMeds/internal/echo"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/models"
)

// Callbacks are invoked for foreign writes. They should re-read local
// state; the event payload is not passed on. Nil callbacks are skipped.
type Callbacks struct {
	ReloadMedications func(ctx context.Context)
	ReloadLogs        func(ctx context.Context)
	ReloadSettings    func(ctx context.Context)
}

type Listener struct {
	feed      adapter.Feed
	deviceID  string
	gate      *echo.Gate
	callbacks Callbacks

	logger *logger.Logger
}

func NewListener(feed adapter.Feed, deviceID string, gate *echo.Gate, callbacks Callbacks, log *logger.Logger) *Listener {
	return &Listener{
		feed:      feed,
		deviceID:  deviceID,
		gate:      gate,
		callbacks: callbacks,
		logger:    log,
	}
}

// Subscribe opens the owner-scoped feed for token and dispatches events on
// a single goroutine until the returned handle is unsubscribed, ctx ends or
// the stream closes.
func (l *Listener) Subscribe(ctx context.Context, token string) (*Handle, error) {
	sub, err := l.feed.Subscribe(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("subscribe to change feed: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{sub: sub, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		l.loop(ctx, sub.Events())
	}()

	l.logger.Info().Str("device_id", l.deviceID).Msg("realtime subscription opened")
	return h, nil
}

func (l *Listener) loop(ctx context.Context, events <-chan models.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				l.logger.Info().Msg("realtime subscription closed by remote")
				return
			}
			l.dispatch(ctx, e)
		}
	}
}

// dispatch runs the callback for e and reports whether one was invoked.
func (l *Listener) dispatch(ctx context.Context, e models.ChangeEvent) bool {
	callback := l.callbackFor(e)
	if callback == nil {
		return false
	}

	if origin := e.OriginDevice(); origin != "" && origin == l.deviceID {
		l.logger.Debug().Str("topic", string(e.Topic)).Str("type", string(e.Type)).Msg("own write echoed, ignored")
		return false
	}
	if l.gate != nil && l.gate.Raised() {
		l.logger.Debug().Str("topic", string(e.Topic)).Msg("change ignored while applying remote state")
		return false
	}

	l.logger.Debug().Str("topic", string(e.Topic)).Str("type", string(e.Type)).Msg("foreign change, reloading")
	callback(ctx)
	return true
}

func (l *Listener) callbackFor(e models.ChangeEvent) func(context.Context) {
	switch e.Topic {
	case models.TopicMedications:
		if e.Type == models.EventUpdate {
			return l.callbacks.ReloadMedications
		}
	case models.TopicLogs:
		return l.callbacks.ReloadLogs
	case models.TopicSettings:
		if e.Type == models.EventUpdate {
			return l.callbacks.ReloadSettings
		}
	}
	return nil
}

// Handle is an open realtime subscription.
type Handle struct {
	sub    adapter.Subscription
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Unsubscribe releases the remote stream and waits for the dispatch
// goroutine. It may be called on a nil handle and more than once.
func (h *Handle) Unsubscribe() error {
	if h == nil {
		return nil
	}

	var err error
	h.once.Do(func() {
		h.cancel()
		err = h.sub.Close()
		<-h.done
	})
	return err
}

// Done is closed when dispatching has stopped.
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return h.done
}
