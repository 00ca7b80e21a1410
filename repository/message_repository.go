package repository

import (
	"context"

	"github.com/ogulcan/mezun/models"
)

// MessageRepository, direkt mesaj veritabanı işlemleri için interface.
//
// Arama günlüğü (CallLogService) de bu interface üzerinden yazar —
// arama özetleri sıradan mesaj kaydıdır, ayrı tablosu yoktur.
type MessageRepository interface {
	// Create, yeni mesaj kaydı oluşturur.
	Create(ctx context.Context, msg *models.Message) error

	// GetBetweenUsers, iki kullanıcı arasındaki tüm mesajları
	// kronolojik sırayla (eskiden yeniye) döner.
	GetBetweenUsers(ctx context.Context, userA, userB string) ([]models.Message, error)

	// GetLastBetweenUsers, iki kullanıcı arasındaki en son mesajı döner.
	// Hiç mesaj yoksa (nil, nil) döner — hata değil.
	GetLastBetweenUsers(ctx context.Context, userA, userB string) (*models.Message, error)
}
