// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/models"
)

const (
	// subscriberBuffer is the number of events queued per subscriber before
	// new events are dropped for it.
	subscriberBuffer = 64
	writeTimeout     = 5 * time.Second
)

// Hub routes published change events to the subscribers of the event owner.
// The zero value is not usable; create one with NewHub.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	closed bool

	logger *logger.Logger
}

type subscriber struct {
	ownerID string
	events  chan models.ChangeEvent
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		logger: log,
	}
}

// Publish queues e for every subscriber of e.OwnerID. It never blocks: a
// subscriber whose queue is full misses the event.
func (h *Hub) Publish(ctx context.Context, e models.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[e.OwnerID] {
		select {
		case sub.events <- e:
		default:
			logger.FromContext(ctx).Warn().
				Str("owner_id", e.OwnerID).
				Str("topic", string(e.Topic)).
				Msg("subscriber queue full, change event dropped")
		}
	}
}

// Subscribe registers a subscriber for ownerID. The returned function
// unregisters it and closes the channel; it may be called more than once.
func (h *Hub) Subscribe(ownerID string) (<-chan models.ChangeEvent, func()) {
	sub := &subscriber{ownerID: ownerID, events: make(chan models.ChangeEvent, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.events)
		return sub.events, func() {}
	}
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[*subscriber]struct{})
	}
	h.subs[ownerID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.events, func() {
		once.Do(func() { h.remove(sub) })
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	owned, ok := h.subs[sub.ownerID]
	if !ok {
		return
	}
	if _, ok = owned[sub]; !ok {
		return
	}

	delete(owned, sub)
	if len(owned) == 0 {
		delete(h.subs, sub.ownerID)
	}
	close(sub.events)
}

// SubscriberCount returns the number of open subscriptions of ownerID.
func (h *Hub) SubscriberCount(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[ownerID])
}

// Close ends every subscription. Subscribe returns closed channels
// afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	h.logger.Info().Int("owners", len(h.subs)).Msg("closing change feed")
	for ownerID, owned := range h.subs {
		for sub := range owned {
			close(sub.events)
		}
		delete(h.subs, ownerID)
	}
}

// ServeWebsocket upgrades the request and streams the events of ownerID
// as JSON text messages until the client goes away or the hub closes.
// Messages sent by the client are ignored.
func (h *Hub) ServeWebsocket(w http.ResponseWriter, r *http.Request, ownerID string) {
	log := logger.FromRequest(r)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "Hub.ServeWebsocket").Msg("websocket upgrade failed")
		return
	}

	events, unsubscribe := h.Subscribe(ownerID)
	defer unsubscribe()

	ctx := conn.CloseRead(r.Context())

	log.Info().Str("owner_id", ownerID).Int("subscribers", h.SubscriberCount(ownerID)).Msg("change feed subscriber connected")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("owner_id", ownerID).Msg("change feed subscriber left")
			return
		case e, ok := <-events:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err = h.write(ctx, conn, e); err != nil {
				log.Warn().Err(err).Str("owner_id", ownerID).Msg("change feed write failed")
				return
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, e models.ChangeEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return conn.Write(ctx, websocket.MessageText, data)
}
