package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: Bir mesajı yazmak için maksimum bekleme süresi.
	writeWait = 10 * time.Second

	// pongWait: Client'ın heartbeat göndermesi için beklenen maksimum süre.
	// Bu sürede heartbeat gelmezse bağlantı kopmuş sayılır.
	pongWait = 90 * time.Second

	// maxMessageSize: Client'ın gönderebileceği maksimum mesaj boyutu (byte).
	// Signaling mesajları küçüktür — büyük veri HTTP ile gider.
	maxMessageSize = 4096

	// sendBufferSize: Her client'ın send channel'ının buffer boyutu.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısını temsil eder.
//
// Her bağlantı için iki goroutine çalışır:
// - ReadPump: Client'tan gelen mesajları okur → Hub callback'lerine iletir
// - WritePump: send channel'dan gelen mesajları bağlantıya yazar
//
// gorilla/websocket aynı anda tek okuma ve tek yazma destekler;
// iki ayrı goroutine sayesinde okuma ve yazma birbirini bloklamaz.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string

	// send: Client'a gönderilecek mesajların buffer'landığı channel.
	send chan []byte

	// closeOnce: send channel'ını en fazla bir kez kapatır.
	// Bağlantı hem replace (last-connect-wins) hem disconnect yolundan
	// kapanabilir — iki kez close panic'e yol açardı.
	closeOnce sync.Once

	mu sync.Mutex // conn.WriteMessage çağrılarını korur
}

// closeSend, send channel'ını güvenle (bir kez) kapatır.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump, WebSocket bağlantısından gelen mesajları okur ve işler.
// Bağlantı kapanana kadar döngüde kalır; kapanınca Hub'dan çıkış yapar.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for user %s: %v", c.userID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] invalid message from user %s: %v", c.userID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent, client'tan gelen event'leri türüne göre işler.
//
// Her signaling kind'ı İKİ isim altında kabul edilir: güncel (snake_case
// payload) ve eski (camelCase payload). Hangi sözlüğün tetiklediği
// legacy flag'i ile callback'e taşınır — outbound dual-emit kararı
// bu flag'e bakar.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		// Heartbeat geldi — deadline'ı yenile ve ack gönder.
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	case OpCallInvite:
		c.handleCallSignal(SignalInvite, event, false)
	case OpCallAccept:
		c.handleCallSignal(SignalAccept, event, false)
	case OpCallReject:
		c.handleCallSignal(SignalReject, event, false)
	case OpCallEnd:
		c.handleCallSignal(SignalEnd, event, false)

	case OpLegacyCallInvite:
		c.handleCallSignal(SignalInvite, event, true)
	case OpLegacyCallAccept:
		c.handleCallSignal(SignalAccept, event, true)
	case OpLegacyCallReject:
		c.handleCallSignal(SignalReject, event, true)
	case OpLegacyCallEnd:
		c.handleCallSignal(SignalEnd, event, true)

	default:
		log.Printf("[ws] unknown op from user %s: %s", c.userID, event.Op)
	}
}

// handleCallSignal, bir signaling mesajını parse edip Hub callback'ine iletir.
//
// event.Data tipi `any` — doğrudan cast edilemez, JSON'a çevirip
// hedef struct'a tekrar parse edilir. Eski sözlükte alan isimleri
// camelCase olduğundan ayrı struct'a parse edilip kanonik şekle map'lenir.
func (c *Client) handleCallSignal(kind SignalKind, event Event, legacy bool) {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		log.Printf("[ws] failed to marshal %s payload from user %s: %v", kind, c.userID, err)
		return
	}

	var data CallSignalData
	if legacy {
		var legacyData legacyCallSignalData
		if err := json.Unmarshal(dataBytes, &legacyData); err != nil {
			log.Printf("[ws] invalid legacy %s payload from user %s: %v", kind, c.userID, err)
			return
		}
		data = legacyData.canonical()
	} else {
		if err := json.Unmarshal(dataBytes, &data); err != nil {
			log.Printf("[ws] invalid %s payload from user %s: %v", kind, c.userID, err)
			return
		}
	}

	// Callback ReadPump içinde senkron çağrılır: aynı gönderenin mesajları
	// yayın sırasıyla işlenmeli (invite'tan önce end işlenirse karşı taraf
	// hiç çalmayan bir aramayla kalır). Forward tarafı bloklayan I/O yapmaz,
	// kanal yazmaları non-blocking'dir.
	if c.hub.onCallSignal != nil {
		c.hub.onCallSignal(c.userID, kind, data, legacy)
	}
}

// sendEvent, client'a tek bir event gönderir.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for user %s: %v", c.userID, err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("[ws] send buffer full for user %s, dropping connection", c.userID)
		c.hub.unregister <- c
	}
}

// WritePump, send channel'dan gelen mesajları WebSocket bağlantısına yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			// Channel kapatıldı — Hub client'ı çıkardı veya bağlantı replace edildi
			c.writeMessage(websocket.CloseMessage, nil)
			return
		}

		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// writeMessage, WebSocket'e mesaj yazar. gorilla/websocket conn'a aynı anda
// birden fazla yazma yasak — mutex ile korunur.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
