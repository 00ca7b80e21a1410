// Package services — CallLogService: arama özetlerinin sohbete yazılması.
//
// Reddedilen ve tamamlanan aramalar, iki taraf arasındaki sohbete insan
// tarafından okunabilir bir mesaj olarak düşer ("Missed video call",
// "Audio call · 2m 05s"). Kayıt sıradan bir direkt mesajdır — yapısal
// arama metadata'sı saklanmaz, elle yazılmış metinden ayırt edilemez.
//
// Best-effort: persist hatası loglanır ve yutulur; signaling doğruluğu
// arama günlüğüne asla bağlı değildir.
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/repository"
)

// CallLogService, arama özetlerini mesaj olarak kalıcılaştırır.
// Her iki metot da fire-and-forget'tir: CallService forward SONRASI
// ayrı goroutine'de çağırır, hata dönmez.
type CallLogService interface {
	// LogMissedCall, reddedilen arama için "Missed {audio|video} call" yazar.
	// fromUserID reddeden taraf (signaler), toUserID arayan taraftır.
	LogMissedCall(fromUserID, toUserID string, callType models.CallType)

	// LogCompletedCall, biten arama için "{Audio|Video} call · ..." yazar.
	// fromUserID end gönderen taraftır.
	LogCompletedCall(fromUserID, toUserID string, callType models.CallType, durationSeconds int)
}

// callLogService, CallLogService'in private implementasyonu.
type callLogService struct {
	messageRepo repository.MessageRepository
}

// NewCallLogService, constructor.
func NewCallLogService(messageRepo repository.MessageRepository) CallLogService {
	return &callLogService{messageRepo: messageRepo}
}

func (s *callLogService) LogMissedCall(fromUserID, toUserID string, callType models.CallType) {
	s.persist(fromUserID, toUserID, missedCallBody(callType))
}

func (s *callLogService) LogCompletedCall(fromUserID, toUserID string, callType models.CallType, durationSeconds int) {
	s.persist(fromUserID, toUserID, completedCallBody(callType, durationSeconds))
}

// persist, özeti sıradan mesaj kaydı olarak yazar. Hata yutulur.
func (s *callLogService) persist(fromUserID, toUserID, body string) {
	msg := &models.Message{
		ID:          uuid.New().String(),
		SenderID:    fromUserID,
		RecipientID: toUserID,
		Content:     body,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.messageRepo.Create(context.Background(), msg); err != nil {
		// Best-effort: operatör loguna yaz, peer'lara asla yansıtma.
		log.Printf("[calllog] failed to persist call log %q (%s → %s): %v",
			body, fromUserID, toUserID, err)
		return
	}

	log.Printf("[calllog] persisted: %q (%s → %s)", body, fromUserID, toUserID)
}

// missedCallBody, reddedilen arama özet metnini üretir.
// Format sabittir: "Missed audio call" / "Missed video call".
func missedCallBody(callType models.CallType) string {
	return fmt.Sprintf("Missed %s call", callType)
}

// completedCallBody, tamamlanan arama özet metnini üretir.
//
// Bir dakikanın altı: "Video call · 45s"
// Bir dakika ve üstü: "Video call · 2m 05s" (saniye iki haneli)
func completedCallBody(callType models.CallType, durationSeconds int) string {
	label := "Video"
	if callType == models.CallTypeAudio {
		label = "Audio"
	}

	if durationSeconds < 60 {
		return fmt.Sprintf("%s call · %ds", label, durationSeconds)
	}
	return fmt.Sprintf("%s call · %dm %02ds", label, durationSeconds/60, durationSeconds%60)
}
