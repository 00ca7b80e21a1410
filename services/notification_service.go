package services

import (
	"context"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/repository"
)

// NotificationService, bildirim listeleme ve okundu işaretleme işlemleri.
type NotificationService interface {
	// List, kullanıcının bildirimlerini yeniden eskiye döner.
	// Limit sınırlarını repository uygular.
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)

	// MarkAllRead, kullanıcının tüm bildirimlerini okundu işaretler.
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService, constructor — interface döner.
func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, limit)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
