package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(h *Hub) *Client {
	return &Client{hub: h, send: make(chan []byte, 8)}
}

func receiveEvent(t *testing.T, c *Client) *Event {
	select {
	case data := <-c.send:
		var event Event
		assert.NoError(t, json.Unmarshal(data, &event))
		return &event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub)
	second := newTestClient(hub)
	hub.register <- first
	hub.register <- second

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(&Event{Type: EventChatMessage, Payload: "new message"})

	for _, client := range []*Client{first, second} {
		event := receiveEvent(t, client)
		assert.Equal(t, EventChatMessage, event.Type)
		assert.False(t, event.Timestamp.IsZero())
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub)
	hub.register <- client
	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.unregister <- client
	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	// the send channel is closed so the write pump terminates
	_, open := <-client.send
	assert.False(t, open)
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{hub: hub, send: make(chan []byte)}
	hub.register <- slow
	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	// nobody drains slow.send, the fan-out must not block on it
	hub.Broadcast(&Event{Type: EventChatMessage})
	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
