package repository

import (
	"context"

	"github.com/ogulcan/mezun/models"
)

// ConnectionRepository, bağlantı (network) veritabanı işlemleri için interface.
type ConnectionRepository interface {
	// Create, yeni bir pending bağlantı isteği kaydeder.
	Create(ctx context.Context, conn *models.Connection) error

	// GetByID, ID ile bağlantı bulur. Bulunamazsa pkg.ErrNotFound döner.
	GetByID(ctx context.Context, id string) (*models.Connection, error)

	// GetByPair, iki kullanıcı arasındaki bağlantıyı yön bağımsız bulur.
	// Kayıt yoksa (nil, nil) döner — hata değil.
	GetByPair(ctx context.Context, userA, userB string) (*models.Connection, error)

	// UpdateStatus, bağlantının durumunu günceller (pending → accepted).
	UpdateStatus(ctx context.Context, id string, status models.ConnectionStatus) error

	// ListByUser, kullanıcının tüm bağlantılarını karşı taraf bilgisiyle döner.
	ListByUser(ctx context.Context, userID string) ([]models.ConnectionWithUser, error)
}
