package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func connect(t *testing.T, hub *Hub, userID uint) *Client {
	client := NewClient(hub, nil, userID)
	hub.Register <- client
	require.Eventually(t, func() bool { return hub.IsUserOnline(userID) }, time.Second, 5*time.Millisecond)
	return client
}

func TestNotifyOrderStatus(t *testing.T) {
	hub := startHub(t)
	phone := connect(t, hub, 1)
	laptop := connect(t, hub, 1)
	stranger := connect(t, hub, 2)

	delivered := hub.NotifyOrderStatus(1, "order-1", "COMPLETED")
	assert.Equal(t, 2, delivered)

	for _, c := range []*Client{phone, laptop} {
		select {
		case raw := <-c.Send:
			var msg OrderStatusMessage
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, OrderStatusMessage{Type: "order_status", OrderID: "order-1", Status: "COMPLETED"}, msg)
		default:
			t.Fatal("expected a notification")
		}
	}
	assert.Empty(t, stranger.Send)
}

func TestNotifyOfflineUser(t *testing.T) {
	hub := startHub(t)
	assert.Zero(t, hub.NotifyOrderStatus(42, "order-1", "CANCELLED"))
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	first := connect(t, hub, 3)
	second := connect(t, hub, 3)

	hub.Unregister <- first
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-first.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.True(t, hub.IsUserOnline(3))

	hub.Unregister <- second
	require.Eventually(t, func() bool { return !hub.IsUserOnline(3) }, time.Second, 5*time.Millisecond)
}

func TestFullBufferDropsMessage(t *testing.T) {
	hub := startHub(t)
	client := connect(t, hub, 5)

	for i := 0; i < sendBuffer; i++ {
		require.Equal(t, 1, hub.SendToUser(5, []byte("x")))
	}
	assert.Zero(t, hub.SendToUser(5, []byte("overflow")))
	assert.Len(t, client.Send, sendBuffer)
}
