package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ogulcan/mezun/models"
)

// sqliteNotificationRepo, NotificationRepository interface'inin SQLite implementasyonu.
type sqliteNotificationRepo struct {
	db *sql.DB
}

// NewSQLiteNotificationRepo, constructor — interface döner.
func NewSQLiteNotificationRepo(db *sql.DB) NotificationRepository {
	return &sqliteNotificationRepo{db: db}
}

func (r *sqliteNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, type, from_user_id, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Type, n.FromUserID, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *sqliteNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT n.id, n.user_id, n.type, n.from_user_id, n.read, n.created_at,
			u.id, u.name, u.avatar_url
		 FROM notifications n
		 JOIN users u ON u.id = n.from_user_id
		 WHERE n.user_id = ?
		 ORDER BY n.created_at DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var list []models.Notification
	for rows.Next() {
		var n models.Notification
		var from models.User
		var avatarURL sql.NullString

		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.FromUserID, &n.Read, &n.CreatedAt,
			&from.ID, &from.Name, &avatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		if avatarURL.Valid {
			from.AvatarURL = &avatarURL.String
		}
		n.FromUser = &from
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return list, nil
}

func (r *sqliteNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0", userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
