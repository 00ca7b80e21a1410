package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcan/mezun/models"
)

func TestLegacyPayloadMapping(t *testing.T) {
	t.Run("canonical maps camelCase fields", func(t *testing.T) {
		dur := 42
		legacy := legacyCallSignalData{
			ToUserID:        "user-2",
			ChannelName:     "room-1",
			CallType:        "audio",
			DurationSeconds: &dur,
		}

		got := legacy.canonical()
		assert.Equal(t, "user-2", got.ToUserID)
		assert.Equal(t, "room-1", got.ChannelName)
		assert.Equal(t, "audio", got.CallType)
		require.NotNil(t, got.DurationSeconds)
		assert.Equal(t, 42, *got.DurationSeconds)
		// Eski şemada caller alanları yok — boş kalmalı.
		assert.Empty(t, got.CallerName)
		assert.Empty(t, got.CallerAvatarURL)
	})

	t.Run("ToLegacy drops caller fields", func(t *testing.T) {
		data := CallEventData{
			FromUserID:      "user-1",
			ChannelName:     "room-1",
			CallType:        models.CallTypeVideo,
			CallerName:      "Ayşe",
			CallerAvatarURL: "https://cdn.example/a.png",
		}

		raw, err := json.Marshal(data.ToLegacy())
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(raw, &fields))
		assert.Equal(t, "user-1", fields["fromUserId"])
		assert.Equal(t, "room-1", fields["channelName"])
		assert.Equal(t, "video", fields["callType"])
		assert.NotContains(t, fields, "caller_name")
		assert.NotContains(t, fields, "callerName")
	})
}

// dispatchSignal, handleEvent'i bir test hub'ı üzerinden çalıştırıp
// callback'e düşen argümanları döner.
func dispatchSignal(t *testing.T, op string, payload any) (kind SignalKind, data CallSignalData, legacy bool) {
	t.Helper()

	type result struct {
		kind   SignalKind
		data   CallSignalData
		legacy bool
	}
	got := make(chan result, 1)

	h := NewHub()
	h.OnCallSignal(func(_ string, kind SignalKind, data CallSignalData, legacy bool) {
		got <- result{kind, data, legacy}
	})
	client := newTestClient(h, "sender")

	client.handleEvent(Event{Op: op, Data: payload})

	select {
	case r := <-got:
		return r.kind, r.data, r.legacy
	case <-time.After(time.Second):
		t.Fatalf("callback not invoked for op %s", op)
		return
	}
}

func TestHandleEventDispatch(t *testing.T) {
	current := map[string]SignalKind{
		OpCallInvite: SignalInvite,
		OpCallAccept: SignalAccept,
		OpCallReject: SignalReject,
		OpCallEnd:    SignalEnd,
	}
	for op, want := range current {
		t.Run(op, func(t *testing.T) {
			kind, data, legacy := dispatchSignal(t, op, map[string]any{
				"to_user_id":   "user-2",
				"channel_name": "room-1",
			})
			assert.Equal(t, want, kind)
			assert.False(t, legacy)
			assert.Equal(t, "user-2", data.ToUserID)
			assert.Equal(t, "room-1", data.ChannelName)
		})
	}

	old := map[string]SignalKind{
		OpLegacyCallInvite: SignalInvite,
		OpLegacyCallAccept: SignalAccept,
		OpLegacyCallReject: SignalReject,
		OpLegacyCallEnd:    SignalEnd,
	}
	for op, want := range old {
		t.Run(op, func(t *testing.T) {
			kind, data, legacy := dispatchSignal(t, op, map[string]any{
				"toUserId":    "user-2",
				"channelName": "room-1",
			})
			assert.Equal(t, want, kind)
			assert.True(t, legacy)
			assert.Equal(t, "user-2", data.ToUserID)
			assert.Equal(t, "room-1", data.ChannelName)
		})
	}
}

func TestHandleEventOrdering(t *testing.T) {
	t.Run("slow first message does not get overtaken", func(t *testing.T) {
		// Aynı gönderenin mesajları callback'e yayın sırasıyla ulaşmalı:
		// invite'tan önce end işlenirse karşı taraf hiç çalmayan bir
		// aramayla kalır.
		var mu sync.Mutex
		var got []SignalKind

		h := NewHub()
		h.OnCallSignal(func(_ string, kind SignalKind, _ CallSignalData, _ bool) {
			if kind == SignalInvite {
				time.Sleep(50 * time.Millisecond)
			}
			mu.Lock()
			got = append(got, kind)
			mu.Unlock()
		})
		client := newTestClient(h, "sender")

		payload := map[string]any{"to_user_id": "user-2", "channel_name": "room-1"}
		client.handleEvent(Event{Op: OpCallInvite, Data: payload})
		client.handleEvent(Event{Op: OpCallEnd, Data: payload})

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []SignalKind{SignalInvite, SignalEnd}, got)
	})
}

func TestHandleEventBadPayload(t *testing.T) {
	t.Run("unmarshalable data does not reach callback", func(t *testing.T) {
		h := NewHub()
		called := false
		h.OnCallSignal(func(string, SignalKind, CallSignalData, bool) {
			called = true
		})
		client := newTestClient(h, "sender")

		// chan JSON'a çevrilemez — mesaj loglanıp düşmeli.
		client.handleEvent(Event{Op: OpCallInvite, Data: make(chan int)})
		assert.False(t, called)
	})
}
