package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Message, iki kullanıcı arasındaki bir direkt mesajı temsil eder.
//
// Arama özetleri ("Missed video call", "Audio call · 2m 05s") de bu tabloya
// sıradan mesaj olarak yazılır — kayıt yapısında arama metadata'sı yoktur,
// elle yazılmış bir mesajdan ayırt edilemez.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// SendMessageRequest, yeni mesaj gönderme isteği.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

// Validate, SendMessageRequest'in geçerli olup olmadığını kontrol eder.
func (r *SendMessageRequest) Validate() error {
	r.RecipientID = strings.TrimSpace(r.RecipientID)
	r.Content = strings.TrimSpace(r.Content)

	if r.RecipientID == "" {
		return fmt.Errorf("recipient_id is required")
	}
	if r.Content == "" {
		return fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(r.Content) > 4000 {
		return fmt.Errorf("content must be at most 4000 characters")
	}
	return nil
}

// Conversation, sohbet listesindeki tek bir satır:
// karşı taraf kullanıcı + son mesaj (varsa).
type Conversation struct {
	OtherUser   *User    `json:"other_user"`
	LastMessage *Message `json:"last_message,omitempty"`
}
