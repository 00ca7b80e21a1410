package models

import "time"

// PasswordResetToken, tek kullanımlık şifre sıfırlama token kaydı.
//
// Token'ın kendisi DB'de TUTULMAZ — sadece SHA256 hash'i saklanır.
// Plaintext token yalnızca kullanıcıya giden email linkinde bulunur.
type PasswordResetToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired, token'ın süresinin dolup dolmadığını döner.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
