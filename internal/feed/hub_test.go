package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(ownerID string) models.ChangeEvent {
	return models.ChangeEvent{
		Topic:   models.TopicMedications,
		Type:    models.EventUpdate,
		OwnerID: ownerID,
		Device:  "device_a",
		Record:  json.RawMessage(`{"id":"m1","device_id":"device_a"}`),
	}
}

func TestHub_PublishRoutesByOwner(t *testing.T) {
	hub := NewHub(logger.Nop())

	mine, unsubscribeMine := hub.Subscribe("u1")
	defer unsubscribeMine()
	theirs, unsubscribeTheirs := hub.Subscribe("u2")
	defer unsubscribeTheirs()

	hub.Publish(context.Background(), event("u1"))

	select {
	case got := <-mine:
		assert.Equal(t, "u1", got.OwnerID)
	default:
		t.Fatal("owner subscriber did not receive the event")
	}

	select {
	case <-theirs:
		t.Fatal("foreign subscriber received the event")
	default:
	}
}

func TestHub_FullQueueDropsEvents(t *testing.T) {
	hub := NewHub(logger.Nop())
	events, unsubscribe := hub.Subscribe("u1")
	defer unsubscribe()

	for range subscriberBuffer + 10 {
		hub.Publish(context.Background(), event("u1"))
	}

	assert.Len(t, events, subscriberBuffer)
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(logger.Nop())
	events, unsubscribe := hub.Subscribe("u1")
	require.Equal(t, 1, hub.SubscriberCount("u1"))

	unsubscribe()
	unsubscribe()

	assert.Equal(t, 0, hub.SubscriberCount("u1"))
	_, ok := <-events
	assert.False(t, ok)

	hub.Publish(context.Background(), event("u1"))
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(logger.Nop())
	events, unsubscribe := hub.Subscribe("u1")

	hub.Close()
	unsubscribe()

	_, ok := <-events
	assert.False(t, ok)

	late, _ := hub.Subscribe("u1")
	_, ok = <-late
	assert.False(t, ok)
}

func TestHub_ServeWebsocket(t *testing.T) {
	hub := NewHub(logger.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWebsocket(w, r, r.URL.Query().Get("owner"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?owner=u1"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return hub.SubscriberCount("u1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(ctx, event("u2"))
	hub.Publish(ctx, event("u1"))

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var got models.ChangeEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, "device_a", got.OriginDevice())

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	assert.Eventually(t, func() bool { return hub.SubscriberCount("u1") == 0 }, time.Second, 10*time.Millisecond)
}
