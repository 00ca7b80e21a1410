package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient, pump'ları çalışmayan bir client üretir.
// conn nil kalır — registry testleri bağlantıya dokunmaz.
func newTestClient(h *Hub, userID string) *Client {
	return &Client{
		hub:    h,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

func TestHubRegistry(t *testing.T) {
	t.Run("register then send round-trip", func(t *testing.T) {
		h := NewHub()
		client := newTestClient(h, "user-1")
		h.addClient(client)

		assert.True(t, h.IsOnline("user-1"))
		assert.False(t, h.IsOnline("user-2"))

		ok := h.SendToUser("user-1", Event{Op: OpCallInvite})
		require.True(t, ok)

		raw := <-client.send
		var got Event
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, OpCallInvite, got.Op)
		assert.Equal(t, int64(1), got.Seq)
	})

	t.Run("send to unknown user returns false", func(t *testing.T) {
		h := NewHub()
		assert.False(t, h.SendToUser("ghost", Event{Op: OpCallInvite}))
	})

	t.Run("reconnect replaces previous connection", func(t *testing.T) {
		h := NewHub()
		first := newTestClient(h, "user-1")
		second := newTestClient(h, "user-1")

		h.addClient(first)
		h.addClient(second)

		// Yeni bağlantı kazanır, eskinin send channel'ı kapanır.
		assert.Same(t, second, h.Lookup("user-1"))
		_, open := <-first.send
		assert.False(t, open)
	})

	t.Run("stale disconnect does not evict replacement", func(t *testing.T) {
		h := NewHub()
		first := newTestClient(h, "user-1")
		second := newTestClient(h, "user-1")

		h.addClient(first)
		h.addClient(second)

		// Superseded bağlantının geç gelen kopuşu — yeni bağlantı
		// registry'de kalmalı.
		h.removeClient(first)
		assert.True(t, h.IsOnline("user-1"))
		assert.Same(t, second, h.Lookup("user-1"))

		// Aktif bağlantının kendi kopuşu ise kaydı düşürür.
		h.removeClient(second)
		assert.False(t, h.IsOnline("user-1"))
	})

	t.Run("disconnect callback fires only on eviction", func(t *testing.T) {
		h := NewHub()
		disconnected := make(chan string, 2)
		h.OnUserDisconnected(func(userID string) { disconnected <- userID })

		first := newTestClient(h, "user-1")
		second := newTestClient(h, "user-1")
		h.addClient(first)
		h.addClient(second)

		h.removeClient(first)
		select {
		case id := <-disconnected:
			t.Fatalf("stale disconnect must not fire callback, got %s", id)
		default:
		}

		h.removeClient(second)
		assert.Equal(t, "user-1", <-disconnected)
	})

	t.Run("seq increases across sends", func(t *testing.T) {
		h := NewHub()
		client := newTestClient(h, "user-1")
		h.addClient(client)

		require.True(t, h.SendToUser("user-1", Event{Op: OpHeartbeatAck}))
		require.True(t, h.SendToUser("user-1", Event{Op: OpHeartbeatAck}))

		var first, second Event
		require.NoError(t, json.Unmarshal(<-client.send, &first))
		require.NoError(t, json.Unmarshal(<-client.send, &second))
		assert.Greater(t, second.Seq, first.Seq)
	})

	t.Run("online user ids", func(t *testing.T) {
		h := NewHub()
		h.addClient(newTestClient(h, "a"))
		h.addClient(newTestClient(h, "b"))

		assert.ElementsMatch(t, []string{"a", "b"}, h.OnlineUserIDs())
	})

	t.Run("shutdown clears registry", func(t *testing.T) {
		h := NewHub()
		client := newTestClient(h, "user-1")
		h.addClient(client)

		h.Shutdown()
		assert.False(t, h.IsOnline("user-1"))
		_, open := <-client.send
		assert.False(t, open)
	})

	t.Run("concurrent send and evict do not race", func(t *testing.T) {
		// Send channel'ı yalnızca write lock altında kapanır, SendToUser
		// ise RLock tutarken yazar. Reconnect fırtınası altında kapalı
		// kanala yazma panic'i olmamalı; -race altında da temiz kalmalı.
		h := NewHub()

		var wg sync.WaitGroup
		stop := make(chan struct{})

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					h.SendToUser("user-1", Event{Op: OpHeartbeatAck})
				}
			}
		}()

		for i := 0; i < 200; i++ {
			client := newTestClient(h, "user-1")
			h.addClient(client)
			go func(c *Client) {
				// Bufferı boşalt ki SendToUser default dalına düşmesin.
				for range c.send {
				}
			}(client)
			h.removeClient(client)
		}

		close(stop)
		wg.Wait()
		h.Shutdown()
	})
}
