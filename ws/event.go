// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı arama
// signaling'ini sağlar.
//
// Mimari:
// - Hub: userID → aktif bağlantı registry'si (her kullanıcı için TEK bağlantı)
// - Client: Tek bir WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Signaling akışı:
// 1. A client'ı call_invite gönderir (to_user_id + channel_name)
// 2. Client, Hub'ın call callback'ini tetikler → services.CallService
// 3. CallService doğrular ve B'nin bağlantısına event forward eder
// 4. B accept/reject gönderir → aynı yoldan A'ya döner
// 5. Medya (ses/video) sunucuya hiç uğramaz — client'lar LiveKit'e bağlanır
package ws

import "github.com/ogulcan/mezun/models"

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op: Event türü — "call_invite", "receive_message" vb.
// Data: Event'e özgü payload.
// Seq: Her outbound event'e verilen artan sayı — client eksik event tespiti
// için takip edebilir.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// ────────────────────────────────────────────
// Operation sabitleri
// ────────────────────────────────────────────

// Client ↔ Server ortak operasyonlar
const (
	OpHeartbeat    = "heartbeat"     // Client periyodik gönderir — "hâlâ bağlıyım"
	OpHeartbeatAck = "heartbeat_ack" // Heartbeat yanıtı
)

// Arama signaling — güncel sözlük.
//
// Inbound (client → server) op'ları accept/reject/end; outbound
// (server → karşı taraf) op'ları geçmiş zamanlıdır (accepted/rejected/ended).
// call_invite her iki yönde aynı isimle kullanılır.
const (
	OpCallInvite   = "call_invite"
	OpCallAccept   = "call_accept"
	OpCallReject   = "call_reject"
	OpCallEnd      = "call_end"
	OpCallAccepted = "call_accepted"
	OpCallRejected = "call_rejected"
	OpCallEnded    = "call_ended"
)

// Arama signaling — eski (deprecated) sözlük.
//
// İlk mobil sürüm camelCase event isimleri ve camelCase payload alanları
// kullanıyordu. Eski client'lar hâlâ sahada — her inbound kind iki isim
// altında kabul edilir; outbound'da güncel isim HER ZAMAN, eski isim ise
// SADECE tetikleyen inbound mesaj eski sözlükten geldiyse yayınlanır.
// Böylece tamamen güncellenmiş bir peer'a çift teslimat olmaz ama
// eski bir gönderen ↔ eski bir alıcı hâlâ köprülenir.
const (
	OpLegacyCallInvite = "callUser"
	OpLegacyCallAccept = "answerCall"
	OpLegacyCallReject = "declineCall"
	OpLegacyCallEnd    = "leaveCall"

	OpLegacyIncomingCall = "incomingCall"
	OpLegacyCallAnswered = "callAnswered"
	OpLegacyCallDeclined = "callDeclined"
	OpLegacyCallEnded    = "callEnded"
)

// Server → Client diğer operasyonlar
const (
	OpReceiveMessage = "receive_message" // Yeni direkt mesaj
	OpNotification   = "notification"    // Üst bar bildirimi
)

// SignalKind, dört signaling mesaj türünü ayırt eder.
type SignalKind string

const (
	SignalInvite SignalKind = "invite"
	SignalAccept SignalKind = "accept"
	SignalReject SignalKind = "reject"
	SignalEnd    SignalKind = "end"
)

// ────────────────────────────────────────────
// Inbound payload'lar (client → server)
// ────────────────────────────────────────────

// CallSignalData, inbound signaling mesajlarının kanonik (güncel sözlük) şekli.
//
// from_user_id alanı BİLEREK yok: gönderen kimliği her zaman authenticated
// socket'ten gelir, client payload'ından asla okunmaz.
type CallSignalData struct {
	ToUserID        string `json:"to_user_id"`
	ChannelName     string `json:"channel_name"`
	CallType        string `json:"call_type,omitempty"`
	CallerName      string `json:"caller_name,omitempty"`       // Sadece invite — UI için
	CallerAvatarURL string `json:"caller_avatar_url,omitempty"` // Sadece invite — UI için
	DurationSeconds *int   `json:"duration_seconds,omitempty"`  // Sadece end
}

// legacyCallSignalData, eski sözlüğün inbound payload şekli.
// camelCase alanlar; caller_name/caller_avatar_url eski şemada hiç yoktu.
type legacyCallSignalData struct {
	ToUserID        string `json:"toUserId"`
	ChannelName     string `json:"channelName"`
	CallType        string `json:"callType,omitempty"`
	DurationSeconds *int   `json:"durationSeconds,omitempty"`
}

// canonical, eski inbound payload'ı kanonik şekle çevirir.
func (d legacyCallSignalData) canonical() CallSignalData {
	return CallSignalData{
		ToUserID:        d.ToUserID,
		ChannelName:     d.ChannelName,
		CallType:        d.CallType,
		DurationSeconds: d.DurationSeconds,
	}
}

// ────────────────────────────────────────────
// Outbound payload'lar (server → client)
// ────────────────────────────────────────────

// CallEventData, forward edilen signaling event'lerinin güncel sözlük payload'ı.
type CallEventData struct {
	FromUserID      string          `json:"from_user_id"`
	ChannelName     string          `json:"channel_name"`
	CallType        models.CallType `json:"call_type"`
	CallerName      string          `json:"caller_name,omitempty"`
	CallerAvatarURL string          `json:"caller_avatar_url,omitempty"`
	DurationSeconds *int            `json:"duration_seconds,omitempty"`
}

// LegacyCallEventData, aynı event'in eski sözlük payload'ı.
// Eski şemada bulunmayan alanlar (caller adı/avatarı) struct'ta hiç yoktur —
// undefined değerle forward edilmeleri böyle engellenir.
type LegacyCallEventData struct {
	FromUserID      string          `json:"fromUserId"`
	ChannelName     string          `json:"channelName"`
	CallType        models.CallType `json:"callType"`
	DurationSeconds *int            `json:"durationSeconds,omitempty"`
}

// ToLegacy, güncel payload'ı eski sözlük şekline çeviren pure mapping.
func (d CallEventData) ToLegacy() LegacyCallEventData {
	return LegacyCallEventData{
		FromUserID:      d.FromUserID,
		ChannelName:     d.ChannelName,
		CallType:        d.CallType,
		DurationSeconds: d.DurationSeconds,
	}
}

// MessageEventData, receive_message event payload'ı.
type MessageEventData struct {
	Message *models.Message `json:"message"`
	From    string          `json:"from"`
}

// NotificationEventData, notification event payload'ı.
type NotificationEventData struct {
	Type     models.NotificationType `json:"type"`
	FromUser *models.User            `json:"from_user"`
	Message  string                  `json:"message,omitempty"`
}
