package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/pkg"
	"github.com/ogulcan/mezun/repository"
	"github.com/ogulcan/mezun/ws"
)

// ChatService, direkt mesajlaşma iş mantığı interface'i.
type ChatService interface {
	// SendMessage, mesajı kaydeder, bildirim oluşturur ve alıcı
	// çevrimiçiyse socket üzerinden anlık iletir.
	SendMessage(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.Message, error)

	// GetMessages, iki kullanıcı arasındaki mesaj geçmişini döner.
	GetMessages(ctx context.Context, userID, otherUserID string) ([]models.Message, error)

	// ListConversations, kullanıcının kabul edilmiş bağlantılarını
	// son mesajlarıyla birlikte döner.
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
}

type chatService struct {
	messageRepo      repository.MessageRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	connectionRepo   repository.ConnectionRepository
	publisher        ws.EventPublisher
}

// NewChatService, constructor.
func NewChatService(
	messageRepo repository.MessageRepository,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	connectionRepo repository.ConnectionRepository,
	publisher ws.EventPublisher,
) ChatService {
	return &chatService{
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		connectionRepo:   connectionRepo,
		publisher:        publisher,
	}
}

func (s *chatService) SendMessage(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err)
	}
	if req.RecipientID == senderID {
		return nil, fmt.Errorf("%w: cannot message yourself", pkg.ErrBadRequest)
	}

	// Alıcının varlığını doğrula — silinmiş kullanıcıya mesaj kaydedilmez.
	if _, err := s.userRepo.GetByID(ctx, req.RecipientID); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		ID:         uuid.New().String(),
		UserID:     req.RecipientID,
		Type:       models.NotificationTypeMessage,
		FromUserID: senderID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		// Bildirim kaybı mesajı geri almaz — logla ve devam et.
		log.Printf("[chat] failed to create notification for message %s: %v", msg.ID, err)
	}

	// Anlık iletim — alıcı çevrimdışıysa sessizce atlanır,
	// mesaj zaten kalıcı kayıtta.
	s.publisher.SendToUser(req.RecipientID, ws.Event{
		Op: ws.OpReceiveMessage,
		Data: ws.MessageEventData{
			Message: msg,
			From:    senderID,
		},
	})
	s.publisher.SendToUser(req.RecipientID, ws.Event{
		Op: ws.OpNotification,
		Data: ws.NotificationEventData{
			Type:     models.NotificationTypeMessage,
			FromUser: sender.PublicProfile(),
		},
	})

	return msg, nil
}

func (s *chatService) GetMessages(ctx context.Context, userID, otherUserID string) ([]models.Message, error) {
	if otherUserID == "" {
		return nil, fmt.Errorf("%w: user id is required", pkg.ErrBadRequest)
	}
	return s.messageRepo.GetBetweenUsers(ctx, userID, otherUserID)
}

func (s *chatService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	connections, err := s.connectionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversations := make([]models.Conversation, 0, len(connections))
	for _, conn := range connections {
		if conn.Status != models.ConnectionStatusAccepted {
			continue
		}
		last, err := s.messageRepo.GetLastBetweenUsers(ctx, userID, conn.OtherUser.ID)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, models.Conversation{
			OtherUser:   conn.OtherUser,
			LastMessage: last,
		})
	}
	return conversations, nil
}
