// Package models — arama (call) domain tipleri.
//
// Arama oturumlarının kendisi sunucuda tutulmaz: signaling katmanı stateless
// relay'dir, tüm arama state'i client tarafındadır. Burada sadece ortak
// tipler ve normalizasyon kuralları yaşar.
package models

// CallType, arama türünü temsil eden typed constant.
type CallType string

const (
	CallTypeAudio CallType = "audio"
	CallTypeVideo CallType = "video"
)

// MaxCallDurationSeconds, bir arama süresinin üst sınırı (24 saat).
// Client'tan gelen duration_seconds bu değere clamp edilir.
const MaxCallDurationSeconds = 24 * 60 * 60

// NormalizeCallType, client'tan gelen arama türünü normalize eder.
//
// Kural kasıtlı olarak katıdır: SADECE birebir "audio" audio sayılır;
// boş, "video" veya herhangi bir çöp değer video'ya düşer. Eski client'lar
// call_type alanını hiç göndermez — varsayılanın video olması onların
// davranışını korur.
func NormalizeCallType(raw string) CallType {
	if raw == string(CallTypeAudio) {
		return CallTypeAudio
	}
	return CallTypeVideo
}

// ClampCallDuration, duration_seconds değerini [0, MaxCallDurationSeconds]
// aralığına indirger. Negatif değer hiç gönderilmemiş sayılır (0).
func ClampCallDuration(seconds int) int {
	if seconds < 0 {
		return 0
	}
	if seconds > MaxCallDurationSeconds {
		return MaxCallDurationSeconds
	}
	return seconds
}

// RTCTokenRequest, medya sağlayıcısına bağlanmak için token isteği.
// ChannelName boş bırakılırsa sunucu yeni bir kanal adı üretir —
// arayan taraf bu kanalı signaling üzerinden karşı tarafa iletir.
type RTCTokenRequest struct {
	ChannelName string `json:"channel_name"`
	CallType    string `json:"call_type"`
}

// RTCTokenResponse, client'ın LiveKit'e bağlanması için gereken her şey.
type RTCTokenResponse struct {
	Token       string   `json:"token"`
	URL         string   `json:"url"`
	ChannelName string   `json:"channel_name"`
	CallType    CallType `json:"call_type"`
}
