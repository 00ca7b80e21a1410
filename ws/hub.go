package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, service katmanının WebSocket event'leri göndermek için
// kullandığı interface.
//
// Service'ler Hub'ın concrete struct'ına değil bu interface'e bağımlıdır:
// testlerde in-memory bir fake publisher kullanılabilir ve Hub implementasyonu
// değişse bile service kodu etkilenmez.
type EventPublisher interface {
	// SendToUser, event'i kullanıcının aktif bağlantısına gönderir.
	// Kullanıcının registry'de kaydı yoksa false döner — event sessizce düşer,
	// gönderene hata sinyali YOKTUR (fire-and-forget sözleşmesi).
	SendToUser(userID string, event Event) bool

	// IsOnline, kullanıcının registry'de aktif bağlantısı var mı döner.
	IsOnline(userID string) bool

	// OnlineUserIDs, bağlı olan tüm kullanıcı ID'lerini döner.
	OnlineUserIDs() []string
}

// Hub, userID → aktif bağlantı registry'sidir.
//
// Her kullanıcı için EN FAZLA BİR bağlantı tutulur: aynı kullanıcı yeniden
// bağlanırsa yeni bağlantı eskisini sessizce değiştirir (last-connect-wins,
// multi-device fan-out yok). Registry kalıcı değildir — process restart'ında
// sıfırdan kurulur, client'lar yeniden bağlanana kadar erişilemez olur.
type Hub struct {
	// clients: userID → aktif Client. Tek bağlantı kuralı burada yaşar.
	clients map[string]*Client

	// mu: clients map'ini koruyan read-write mutex.
	// Map sadece connect/disconnect'te mutate edilir, gönderimler RLock ile okur.
	mu sync.RWMutex

	// register/unregister: Client giriş/çıkış sinyalleri.
	// Run() goroutine'i bu channel'ları dinler — map mutasyonu tek noktadan geçer.
	register   chan *Client
	unregister chan *Client

	// seq: Her outbound event'e verilen artan sayaç.
	seq atomic.Int64

	// onCallSignal: Client'tan gelen signaling mesajları için callback.
	// main.go'da CallService'e bağlanır (Dependency Inversion — ws paketi
	// services paketini import etmez, döngü oluşmaz).
	onCallSignal func(senderID string, kind SignalKind, data CallSignalData, legacy bool)

	// onUserConnected / onUserDisconnected: presence lifecycle callback'leri.
	onUserConnected    func(userID string)
	onUserDisconnected func(userID string)
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// OnCallSignal, signaling callback'ini ayarlar. Wire-up sırasında (main.go)
// bir kez, Run() başlatılmadan önce çağrılmalıdır.
func (h *Hub) OnCallSignal(fn func(senderID string, kind SignalKind, data CallSignalData, legacy bool)) {
	h.onCallSignal = fn
}

// OnUserConnected, bağlantı açıldığında tetiklenecek callback'i ayarlar.
func (h *Hub) OnUserConnected(fn func(userID string)) {
	h.onUserConnected = fn
}

// OnUserDisconnected, kullanıcının bağlantısı registry'den düştüğünde
// tetiklenecek callback'i ayarlar. Superseded (yenisiyle değiştirilmiş)
// bir bağlantının geç gelen kopuşu bu callback'i TETİKLEMEZ.
func (h *Hub) OnUserDisconnected(fn func(userID string)) {
	h.onUserDisconnected = fn
}

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// addClient, client'ı registry'ye ekler. Aynı kullanıcının önceki bağlantısı
// varsa mapping sessizce değiştirilir ve eski bağlantı kapatılır.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	old := h.clients[client.userID]
	h.clients[client.userID] = client
	if old != nil && old != client {
		// Last-connect-wins: superseded bağlantının send channel'ı kapanır,
		// WritePump'ı sonlanır. Geç gelen disconnect'i removeClient'ta
		// handle kontrolü sayesinde yeni bağlantıyı SİLEMEZ.
		//
		// close mutex altında yapılır: SendToUser kanala RLock tutarken
		// yazar, bu yüzden kapalı kanala yazma penceresi oluşmaz.
		old.closeSend()
	}
	h.mu.Unlock()

	if old != nil && old != client {
		log.Printf("[ws] connection replaced for user %s", client.userID)
	} else {
		log.Printf("[ws] client connected: user=%s", client.userID)
		if h.onUserConnected != nil {
			go h.onUserConnected(client.userID)
		}
	}
}

// removeClient, client'ı registry'den çıkarır — ama SADECE map'te hâlâ bu
// handle duruyorsa. Koşulsuz delete, superseded bir bağlantının geç gelen
// disconnect'inin yeni bağlantıyı evict etmesine yol açar (multi-tab /
// hızlı reconnect senaryosu) — o yüzden handle eşitliği şarttır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.userID]
	evicted := ok && current == client
	if evicted {
		delete(h.clients, client.userID)
	}
	// Send channel her durumda kapatılır; eviction olmasa bile bu bağlantının
	// WritePump'ı artık sonlanmalı. Kapatma mutex altında: SendToUser kanala
	// RLock tutarken yazdığı için kapalı kanala yazma penceresi oluşmaz.
	client.closeSend()
	h.mu.Unlock()

	if evicted {
		log.Printf("[ws] client disconnected: user=%s", client.userID)
		if h.onUserDisconnected != nil {
			go h.onUserDisconnected(client.userID)
		}
	}
}

// SendToUser, event'i kullanıcının aktif bağlantısına gönderir.
// Registry'de kayıt yoksa false döner; event düşer, kimseye hata dönmez.
func (h *Hub) SendToUser(userID string, event Event) bool {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for user %s: %v", userID, err)
		return false
	}

	// RLock kanal yazması boyunca tutulur: close() yalnızca write lock
	// altında yapıldığından kanal burada asla kapalı olamaz.
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[userID]
	if !ok {
		return false
	}

	select {
	case client.send <- data:
		return true
	default:
		// Buffer dolu — client yavaş/donmuş, bağlantıyı düşür
		log.Printf("[ws] send buffer full for user %s, dropping connection", userID)
		go func() { h.unregister <- client }()
		return false
	}
}

// IsOnline, kullanıcının aktif bağlantısı var mı döner.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// OnlineUserIDs, bağlı olan tüm kullanıcı ID'lerini döner.
func (h *Hub) OnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		ids = append(ids, userID)
	}
	return ids
}

// Lookup, kullanıcının aktif bağlantısını döner (nil = kayıt yok).
// Registry'nin testlerde doğrudan gözlenebilmesi için vardır;
// service katmanı EventPublisher üzerinden çalışır.
func (h *Hub) Lookup(userID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[userID]
}

// Shutdown, tüm client bağlantılarını kapatır (graceful shutdown).
func (h *Hub) Shutdown() {
	h.mu.Lock()
	for _, client := range h.clients {
		client.closeSend()
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	log.Println("[ws] hub shut down, all connections closed")
}
