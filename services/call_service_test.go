package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/ws"
)

// fakePublisher, EventPublisher'ın in-memory test implementasyonu.
// online map'inde olmayan kullanıcıya gönderim false döner.
type fakePublisher struct {
	mu     sync.Mutex
	online map[string]bool
	sent   []sentEvent
}

type sentEvent struct {
	userID string
	event  ws.Event
}

func newFakePublisher(onlineUsers ...string) *fakePublisher {
	online := make(map[string]bool, len(onlineUsers))
	for _, id := range onlineUsers {
		online[id] = true
	}
	return &fakePublisher{online: online}
}

func (f *fakePublisher) SendToUser(userID string, event ws.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.online[userID] {
		return false
	}
	f.sent = append(f.sent, sentEvent{userID: userID, event: event})
	return true
}

func (f *fakePublisher) IsOnline(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online[userID]
}

func (f *fakePublisher) OnlineUserIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.online))
	for id := range f.online {
		ids = append(ids, id)
	}
	return ids
}

func (f *fakePublisher) events() []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEvent(nil), f.sent...)
}

// callLogCall, fakeCallLog'a düşen tek bir çağrıyı temsil eder.
type callLogCall struct {
	missed   bool
	from, to string
	callType models.CallType
	duration int
}

// fakeCallLog, async çağrıları channel üzerinden gözlemlenebilir kılar.
type fakeCallLog struct {
	calls chan callLogCall
}

func newFakeCallLog() *fakeCallLog {
	return &fakeCallLog{calls: make(chan callLogCall, 4)}
}

func (f *fakeCallLog) LogMissedCall(fromUserID, toUserID string, callType models.CallType) {
	f.calls <- callLogCall{missed: true, from: fromUserID, to: toUserID, callType: callType}
}

func (f *fakeCallLog) LogCompletedCall(fromUserID, toUserID string, callType models.CallType, durationSeconds int) {
	f.calls <- callLogCall{from: fromUserID, to: toUserID, callType: callType, duration: durationSeconds}
}

func (f *fakeCallLog) waitCall(t *testing.T) callLogCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(time.Second):
		t.Fatal("expected call log entry, got none")
		return callLogCall{}
	}
}

func (f *fakeCallLog) assertNoCall(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected call log entry: %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func intPtr(n int) *int { return &n }

func TestCallServiceForward(t *testing.T) {
	t.Run("invite forwarded with authenticated sender identity", func(t *testing.T) {
		pub := newFakePublisher("callee")
		svc := NewCallService(pub, newFakeCallLog())

		svc.Forward("caller", ws.SignalInvite, ws.CallSignalData{
			ToUserID:    "callee",
			ChannelName: "room-1",
			CallType:    "audio",
			CallerName:  "Mehmet",
		}, false)

		events := pub.events()
		require.Len(t, events, 1)
		assert.Equal(t, "callee", events[0].userID)
		assert.Equal(t, ws.OpCallInvite, events[0].event.Op)

		payload, ok := events[0].event.Data.(ws.CallEventData)
		require.True(t, ok)
		assert.Equal(t, "caller", payload.FromUserID)
		assert.Equal(t, "room-1", payload.ChannelName)
		assert.Equal(t, models.CallTypeAudio, payload.CallType)
		assert.Equal(t, "Mehmet", payload.CallerName)
	})

	t.Run("sender identity cannot be spoofed via payload", func(t *testing.T) {
		pub := newFakePublisher("callee")
		svc := NewCallService(pub, newFakeCallLog())

		// CallSignalData'da from alanı yok — gönderen kimliği her zaman
		// socket kimliğidir. Payload ne derse desin "real-sender" yazılır.
		svc.Forward("real-sender", ws.SignalInvite, ws.CallSignalData{
			ToUserID:    "callee",
			ChannelName: "room-1",
		}, false)

		events := pub.events()
		require.Len(t, events, 1)
		payload := events[0].event.Data.(ws.CallEventData)
		assert.Equal(t, "real-sender", payload.FromUserID)
	})

	t.Run("call type coercion", func(t *testing.T) {
		for raw, want := range map[string]models.CallType{
			"audio": models.CallTypeAudio,
			"video": models.CallTypeVideo,
			"":      models.CallTypeVideo,
			"AUDIO": models.CallTypeVideo,
			"junk":  models.CallTypeVideo,
		} {
			pub := newFakePublisher("callee")
			svc := NewCallService(pub, newFakeCallLog())

			svc.Forward("caller", ws.SignalInvite, ws.CallSignalData{
				ToUserID:    "callee",
				ChannelName: "room-1",
				CallType:    raw,
			}, false)

			events := pub.events()
			require.Len(t, events, 1, "callType=%q", raw)
			payload := events[0].event.Data.(ws.CallEventData)
			assert.Equal(t, want, payload.CallType, "callType=%q", raw)
		}
	})

	t.Run("missing fields drop silently", func(t *testing.T) {
		pub := newFakePublisher("callee")
		logSvc := newFakeCallLog()
		svc := NewCallService(pub, logSvc)

		svc.Forward("caller", ws.SignalInvite, ws.CallSignalData{ChannelName: "room-1"}, false)
		svc.Forward("caller", ws.SignalInvite, ws.CallSignalData{ToUserID: "callee"}, false)
		svc.Forward("caller", ws.SignalReject, ws.CallSignalData{ToUserID: "  ", ChannelName: "room-1"}, false)

		assert.Empty(t, pub.events())
		logSvc.assertNoCall(t)
	})

	t.Run("offline recipient drops silently", func(t *testing.T) {
		pub := newFakePublisher() // kimse online değil
		logSvc := newFakeCallLog()
		svc := NewCallService(pub, logSvc)

		svc.Forward("caller", ws.SignalReject, ws.CallSignalData{
			ToUserID:    "callee",
			ChannelName: "room-1",
		}, false)

		assert.Empty(t, pub.events())
		// Forward düştüyse arama günlüğü de yazılmaz.
		logSvc.assertNoCall(t)
	})

	t.Run("legacy inbound triggers dual emit", func(t *testing.T) {
		pub := newFakePublisher("caller")
		svc := NewCallService(pub, newFakeCallLog())

		svc.Forward("callee", ws.SignalAccept, ws.CallSignalData{
			ToUserID:    "caller",
			ChannelName: "room-1",
		}, true)

		events := pub.events()
		require.Len(t, events, 2)
		assert.Equal(t, ws.OpCallAccepted, events[0].event.Op)
		assert.Equal(t, ws.OpLegacyCallAnswered, events[1].event.Op)

		legacyPayload, ok := events[1].event.Data.(ws.LegacyCallEventData)
		require.True(t, ok)
		assert.Equal(t, "callee", legacyPayload.FromUserID)
	})

	t.Run("current inbound emits single event", func(t *testing.T) {
		pub := newFakePublisher("caller")
		svc := NewCallService(pub, newFakeCallLog())

		svc.Forward("callee", ws.SignalAccept, ws.CallSignalData{
			ToUserID:    "caller",
			ChannelName: "room-1",
		}, false)

		events := pub.events()
		require.Len(t, events, 1)
		assert.Equal(t, ws.OpCallAccepted, events[0].event.Op)
	})

	t.Run("reject writes missed call log", func(t *testing.T) {
		pub := newFakePublisher("caller")
		logSvc := newFakeCallLog()
		svc := NewCallService(pub, logSvc)

		svc.Forward("callee", ws.SignalReject, ws.CallSignalData{
			ToUserID:    "caller",
			ChannelName: "room-1",
			CallType:    "audio",
		}, false)

		call := logSvc.waitCall(t)
		assert.True(t, call.missed)
		assert.Equal(t, "callee", call.from)
		assert.Equal(t, "caller", call.to)
		assert.Equal(t, models.CallTypeAudio, call.callType)
	})

	t.Run("end with duration writes completed call log clamped", func(t *testing.T) {
		pub := newFakePublisher("caller")
		logSvc := newFakeCallLog()
		svc := NewCallService(pub, logSvc)

		svc.Forward("callee", ws.SignalEnd, ws.CallSignalData{
			ToUserID:        "caller",
			ChannelName:     "room-1",
			DurationSeconds: intPtr(models.MaxCallDurationSeconds + 500),
		}, false)

		call := logSvc.waitCall(t)
		assert.False(t, call.missed)
		assert.Equal(t, models.MaxCallDurationSeconds, call.duration)
	})

	t.Run("end without duration skips call log", func(t *testing.T) {
		pub := newFakePublisher("caller")
		logSvc := newFakeCallLog()
		svc := NewCallService(pub, logSvc)

		svc.Forward("callee", ws.SignalEnd, ws.CallSignalData{
			ToUserID:    "caller",
			ChannelName: "room-1",
		}, false)

		require.Len(t, pub.events(), 1)
		logSvc.assertNoCall(t)
	})

	t.Run("full handshake invite accept end", func(t *testing.T) {
		pub := newFakePublisher("caller", "callee")
		logSvc := newFakeCallLog()
		svc := NewCallService(pub, logSvc)

		svc.Forward("caller", ws.SignalInvite, ws.CallSignalData{
			ToUserID: "callee", ChannelName: "room-1", CallType: "video",
		}, false)
		svc.Forward("callee", ws.SignalAccept, ws.CallSignalData{
			ToUserID: "caller", ChannelName: "room-1",
		}, false)
		svc.Forward("caller", ws.SignalEnd, ws.CallSignalData{
			ToUserID: "callee", ChannelName: "room-1", DurationSeconds: intPtr(125),
		}, false)

		events := pub.events()
		require.Len(t, events, 3)
		assert.Equal(t, ws.OpCallInvite, events[0].event.Op)
		assert.Equal(t, ws.OpCallAccepted, events[1].event.Op)
		assert.Equal(t, ws.OpCallEnded, events[2].event.Op)

		call := logSvc.waitCall(t)
		assert.Equal(t, 125, call.duration)
		assert.Equal(t, "caller", call.from)
		assert.Equal(t, "callee", call.to)
	})
}
