package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ogulcan/mezun/models"
)

// sqliteMessageRepo, MessageRepository interface'inin SQLite implementasyonu.
type sqliteMessageRepo struct {
	db *sql.DB
}

// NewSQLiteMessageRepo, constructor — interface döner.
func NewSQLiteMessageRepo(db *sql.DB) MessageRepository {
	return &sqliteMessageRepo{db: db}
}

func (r *sqliteMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, recipient_id, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.SenderID, msg.RecipientID, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *sqliteMessageRepo) GetBetweenUsers(ctx context.Context, userA, userB string) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sender_id, recipient_id, content, created_at
		 FROM messages
		 WHERE (sender_id = ? AND recipient_id = ?)
		    OR (sender_id = ? AND recipient_id = ?)
		 ORDER BY created_at ASC, id ASC`,
		userA, userB, userB, userA,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

func (r *sqliteMessageRepo) GetLastBetweenUsers(ctx context.Context, userA, userB string) (*models.Message, error) {
	var m models.Message
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sender_id, recipient_id, content, created_at
		 FROM messages
		 WHERE (sender_id = ? AND recipient_id = ?)
		    OR (sender_id = ? AND recipient_id = ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		userA, userB, userB, userA,
	).Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil // Henüz mesaj yok — hata değil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last message: %w", err)
	}
	return &m, nil
}
