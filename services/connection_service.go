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

// ConnectionService, mezunlar arası bağlantı (network) iş mantığı.
type ConnectionService interface {
	// Request, yeni bir bağlantı isteği gönderir.
	Request(ctx context.Context, requesterID, recipientID string) (*models.Connection, error)

	// Accept, pending bir isteği kabul eder. Sadece istek alıcısı kabul edebilir.
	Accept(ctx context.Context, userID, connectionID string) (*models.Connection, error)

	// List, kullanıcının tüm bağlantılarını (pending + accepted) döner.
	List(ctx context.Context, userID string) ([]models.ConnectionWithUser, error)
}

type connectionService struct {
	connectionRepo   repository.ConnectionRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	publisher        ws.EventPublisher
}

// NewConnectionService, constructor.
func NewConnectionService(
	connectionRepo repository.ConnectionRepository,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher ws.EventPublisher,
) ConnectionService {
	return &connectionService{
		connectionRepo:   connectionRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
	}
}

func (s *connectionService) Request(ctx context.Context, requesterID, recipientID string) (*models.Connection, error) {
	if recipientID == "" {
		return nil, fmt.Errorf("%w: recipient id is required", pkg.ErrBadRequest)
	}
	if recipientID == requesterID {
		return nil, fmt.Errorf("%w: cannot connect with yourself", pkg.ErrBadRequest)
	}

	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	// Yön bağımsız tekillik: A→B varken B→A da açılamaz.
	existing, err := s.connectionRepo.GetByPair(ctx, requesterID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: connection already exists", pkg.ErrAlreadyExists)
	}

	conn := &models.Connection{
		ID:          uuid.New().String(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.ConnectionStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.connectionRepo.Create(ctx, conn); err != nil {
		return nil, err
	}

	s.notify(ctx, recipientID, requesterID, models.NotificationTypeConnectionRequest)
	return conn, nil
}

func (s *connectionService) Accept(ctx context.Context, userID, connectionID string) (*models.Connection, error) {
	conn, err := s.connectionRepo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	// Sadece isteğin alıcısı kabul edebilir.
	if conn.RecipientID != userID {
		return nil, fmt.Errorf("%w: only the recipient can accept a request", pkg.ErrForbidden)
	}
	if conn.Status != models.ConnectionStatusPending {
		return nil, fmt.Errorf("%w: request is not pending", pkg.ErrBadRequest)
	}

	if err := s.connectionRepo.UpdateStatus(ctx, conn.ID, models.ConnectionStatusAccepted); err != nil {
		return nil, err
	}
	conn.Status = models.ConnectionStatusAccepted

	// Kabul bildirimi isteği gönderene gider.
	s.notify(ctx, conn.RequesterID, userID, models.NotificationTypeConnectionAccept)
	return conn, nil
}

func (s *connectionService) List(ctx context.Context, userID string) ([]models.ConnectionWithUser, error) {
	return s.connectionRepo.ListByUser(ctx, userID)
}

// notify, bildirim kaydı oluşturur ve hedef çevrimiçiyse socket'ten iletir.
// Bildirim yan etkidir — hatası ana operasyonu geri almaz.
func (s *connectionService) notify(ctx context.Context, toUserID, fromUserID string, nType models.NotificationType) {
	n := &models.Notification{
		ID:         uuid.New().String(),
		UserID:     toUserID,
		Type:       nType,
		FromUserID: fromUserID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("[connections] failed to create %s notification: %v", nType, err)
		return
	}

	fromUser, err := s.userRepo.GetByID(ctx, fromUserID)
	if err != nil {
		log.Printf("[connections] failed to load user %s for notification: %v", fromUserID, err)
		return
	}
	s.publisher.SendToUser(toUserID, ws.Event{
		Op: ws.OpNotification,
		Data: ws.NotificationEventData{
			Type:     nType,
			FromUser: fromUser.PublicProfile(),
		},
	})
}
