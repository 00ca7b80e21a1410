// Package services — CallService: 1-on-1 arama signaling relay'i.
//
// Sunucu arama oturumu TUTMAZ — saf forwarding:
// - Tüm arama state'i (incoming/outgoing/active) client tarafındadır
// - Sunucu stateless ve crash-safe'tir; bedeli, session bütünlüğünün
//   sunucuda zorlanmamasıdır (client hiç almadığı bir arama için accept
//   üretebilir, reddedecek state yoktur)
//
// Fire-and-forget sözleşmesi:
// - Eksik to_user_id/channel_name → mesaj düşer, gönderene hata DÖNMEZ
// - Alıcı registry'de yoksa → mesaj düşer, gönderene hata DÖNMEZ
// - Gönderen "düştü" ile "alıcı offline"ı ayırt edemez; ringing timeout
//   client sorumluluğudur
//
// Signaling akışı:
// 1. Caller → invite → validate → SendToUser(callee) [dual-emit]
// 2. Callee → accept/reject → SendToUser(caller) [dual-emit]
//    reject sonrası: missed-call günlüğü (best-effort, async)
// 3. Either → end (opsiyonel duration) → SendToUser(other) [dual-emit]
//    duration varsa: completed-call günlüğü (best-effort, async)
package services

import (
	"log"
	"strings"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/ws"
)

// CallService, signaling mesajlarını doğrulayıp karşı tarafa forward eder.
type CallService interface {
	// Forward, authenticated bir gönderenden gelen signaling mesajını işler.
	// senderID her zaman socket'in doğrulanmış kimliğidir — payload'daki
	// hiçbir kimlik alanına bakılmaz. legacy, mesajın eski event sözlüğünden
	// gelip gelmediğini taşır (outbound dual-emit kararı için).
	Forward(senderID string, kind ws.SignalKind, data ws.CallSignalData, legacy bool)
}

// callService, CallService'in private implementasyonu.
type callService struct {
	publisher ws.EventPublisher
	callLog   CallLogService
}

// NewCallService, constructor. Dependency'ler injection ile alınır.
func NewCallService(publisher ws.EventPublisher, callLog CallLogService) CallService {
	return &callService{
		publisher: publisher,
		callLog:   callLog,
	}
}

// outboundOps, signaling kind'ını outbound op çiftine (güncel + eski) eşler.
func outboundOps(kind ws.SignalKind) (current, legacy string, ok bool) {
	switch kind {
	case ws.SignalInvite:
		return ws.OpCallInvite, ws.OpLegacyIncomingCall, true
	case ws.SignalAccept:
		return ws.OpCallAccepted, ws.OpLegacyCallAnswered, true
	case ws.SignalReject:
		return ws.OpCallRejected, ws.OpLegacyCallDeclined, true
	case ws.SignalEnd:
		return ws.OpCallEnded, ws.OpLegacyCallEnded, true
	default:
		return "", "", false
	}
}

// Forward, signaling mesajını doğrular ve alıcının bağlantısına iletir.
func (s *callService) Forward(senderID string, kind ws.SignalKind, data ws.CallSignalData, legacy bool) {
	currentOp, legacyOp, ok := outboundOps(kind)
	if !ok {
		log.Printf("[call] unknown signal kind %q from user %s", kind, senderID)
		return
	}

	// Validation: to_user_id ve channel_name trim sonrası boş olamaz.
	// Eksikse mesaj sessizce düşer — fire-and-forget, ack protokolü yok.
	toUserID := strings.TrimSpace(data.ToUserID)
	channelName := strings.TrimSpace(data.ChannelName)
	if toUserID == "" || channelName == "" {
		log.Printf("[call] dropped %s from user %s: missing to_user_id or channel_name", kind, senderID)
		return
	}

	callType := models.NormalizeCallType(data.CallType)

	payload := ws.CallEventData{
		// from_user_id: HER ZAMAN gönderen socket'in doğrulanmış kimliği.
		FromUserID:  senderID,
		ChannelName: channelName,
		CallType:    callType,
	}

	switch kind {
	case ws.SignalInvite:
		// Caller adı/avatarı sadece invite'ta taşınır — UI için.
		payload.CallerName = strings.TrimSpace(data.CallerName)
		payload.CallerAvatarURL = strings.TrimSpace(data.CallerAvatarURL)
	case ws.SignalEnd:
		if data.DurationSeconds != nil {
			dur := models.ClampCallDuration(*data.DurationSeconds)
			payload.DurationSeconds = &dur
		}
	}

	// Alıcı registry'de yoksa SendToUser false döner: event düşer,
	// legacy emit ve arama günlüğü de atlanır.
	if !s.publisher.SendToUser(toUserID, ws.Event{Op: currentOp, Data: payload}) {
		log.Printf("[call] dropped %s from user %s: recipient %s not connected", kind, senderID, toUserID)
		return
	}

	// Dual-emit: eski isim SADECE tetikleyen inbound mesaj eski sözlükten
	// geldiyse yayınlanır. Güncel bir peer'a çift teslimat olmaz; eski bir
	// gönderen → eski bir alıcı yine köprülenir.
	if legacy {
		s.publisher.SendToUser(toUserID, ws.Event{Op: legacyOp, Data: payload.ToLegacy()})
	}

	log.Printf("[call] forwarded %s: %s → %s (type=%s, channel=%s)",
		kind, senderID, toUserID, callType, channelName)

	// Arama günlüğü: forward SONRASI, ayrı goroutine'de — signaling
	// yolunu asla bloklamaz, hatası asla peer'lara yansımaz.
	switch kind {
	case ws.SignalReject:
		go s.callLog.LogMissedCall(senderID, toUserID, callType)
	case ws.SignalEnd:
		if payload.DurationSeconds != nil {
			go s.callLog.LogCompletedCall(senderID, toUserID, callType, *payload.DurationSeconds)
		}
	}
}
