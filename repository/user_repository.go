// Package repository, veritabanı erişimini interface'ler arkasında soyutlar.
// Service katmanı interface'lere bağımlıdır, SQLite implementasyonlarına değil —
// testlerde in-memory fake'ler kullanılabilir.
package repository

import (
	"context"

	"github.com/ogulcan/mezun/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
type UserRepository interface {
	// Create, yeni kullanıcı kaydı oluşturur.
	// Email zaten kayıtlıysa pkg.ErrAlreadyExists döner.
	Create(ctx context.Context, user *models.User) error

	// GetByID, ID ile kullanıcı bulur. Bulunamazsa pkg.ErrNotFound döner.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail, email ile kullanıcı bulur. Bulunamazsa pkg.ErrNotFound döner.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePassword, kullanıcının password hash'ini günceller.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
