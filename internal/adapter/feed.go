package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/sevenoy/GeminiMeds/internal/config"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/models"
)

const feedBuffer = 64

type websocketFeed struct {
	url    string
	logger *logger.Logger
}

// NewWebsocketFeed returns a [Feed] dialing GET /api/feed on the server at
// cfg.HTTPAddress.
func NewWebsocketFeed(cfg config.ClientAdapter, log *logger.Logger) (Feed, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &websocketFeed{url: baseURL + "/api/feed", logger: log}, nil
}

func (f *websocketFeed) Subscribe(ctx context.Context, token string) (Subscription, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no session token", ErrUnauthorized)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.Dial(ctx, f.url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("dial change feed: %w", err)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	s := &websocketSubscription{
		conn:   conn,
		events: make(chan models.ChangeEvent, feedBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
		logger: f.logger,
	}
	go s.readLoop(readCtx)

	return s, nil
}

type websocketSubscription struct {
	conn   *websocket.Conn
	events chan models.ChangeEvent
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	logger *logger.Logger
}

func (s *websocketSubscription) Events() <-chan models.ChangeEvent {
	return s.events
}

func (s *websocketSubscription) readLoop(ctx context.Context) {
	defer close(s.done)
	defer close(s.events)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				s.logger.Warn().Err(err).Str("func", "websocketSubscription.readLoop").Msg("change feed closed")
			}
			return
		}

		var event models.ChangeEvent
		if err := json.Unmarshal(data, &event); err != nil {
			s.logger.Warn().Err(err).Str("func", "websocketSubscription.readLoop").Msg("skipping malformed change event")
			continue
		}

		select {
		case s.events <- event:
		case <-ctx.Done():
			return
		}
	}
}

// Close sends a normal closure and waits for the read loop to stop. Close
// errors from an already broken connection are only logged.
func (s *websocketSubscription) Close() error {
	s.once.Do(func() {
		if err := s.conn.Close(websocket.StatusNormalClosure, ""); err != nil {
			s.logger.Debug().Err(err).Str("func", "websocketSubscription.Close").Msg("close handshake failed")
		}
		s.cancel()
		<-s.done
	})
	return nil
}
