package repository

import (
	"context"

	"github.com/ogulcan/mezun/models"
)

// NotificationRepository, bildirim veritabanı işlemleri için interface.
type NotificationRepository interface {
	// Create, yeni bildirim kaydı oluşturur.
	Create(ctx context.Context, n *models.Notification) error

	// ListByUser, kullanıcının bildirimlerini (yeniden eskiye) döner.
	// Tetikleyen kullanıcının özeti JOIN ile doldurulur.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)

	// MarkAllRead, kullanıcının tüm bildirimlerini okundu işaretler.
	MarkAllRead(ctx context.Context, userID string) error
}
