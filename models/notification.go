package models

import "time"

// NotificationType, bildirim türünü temsil eden typed constant.
type NotificationType string

const (
	NotificationTypeMessage           NotificationType = "message"
	NotificationTypeConnectionRequest NotificationType = "connection_request"
	NotificationTypeConnectionAccept  NotificationType = "connection_accept"
)

// Notification, bir kullanıcıya gösterilecek bildirimi temsil eder.
type Notification struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"` // Bildirimin sahibi (alıcı)
	Type       NotificationType `json:"type"`
	FromUserID string           `json:"from_user_id"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"created_at"`

	// JOIN ile doldurulur — bildirimi tetikleyen kullanıcının özeti
	FromUser *User `json:"from_user,omitempty"`
}
