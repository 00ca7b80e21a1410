package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/pkg"
)

// sqliteConnectionRepo, ConnectionRepository interface'inin SQLite implementasyonu.
type sqliteConnectionRepo struct {
	db *sql.DB
}

// NewSQLiteConnectionRepo, constructor — interface döner.
func NewSQLiteConnectionRepo(db *sql.DB) ConnectionRepository {
	return &sqliteConnectionRepo{db: db}
}

func (r *sqliteConnectionRepo) Create(ctx context.Context, conn *models.Connection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO connections (id, requester_id, recipient_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		conn.ID, conn.RequesterID, conn.RecipientID, conn.Status, conn.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: connection already exists", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

func (r *sqliteConnectionRepo) GetByID(ctx context.Context, id string) (*models.Connection, error) {
	var c models.Connection
	err := r.db.QueryRowContext(ctx,
		`SELECT id, requester_id, recipient_id, status, created_at
		 FROM connections WHERE id = ?`, id,
	).Scan(&c.ID, &c.RequesterID, &c.RecipientID, &c.Status, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: connection not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &c, nil
}

func (r *sqliteConnectionRepo) GetByPair(ctx context.Context, userA, userB string) (*models.Connection, error) {
	var c models.Connection
	err := r.db.QueryRowContext(ctx,
		`SELECT id, requester_id, recipient_id, status, created_at
		 FROM connections
		 WHERE (requester_id = ? AND recipient_id = ?)
		    OR (requester_id = ? AND recipient_id = ?)`,
		userA, userB, userB, userA,
	).Scan(&c.ID, &c.RequesterID, &c.RecipientID, &c.Status, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil // Bağlantı yok — hata değil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection by pair: %w", err)
	}
	return &c, nil
}

func (r *sqliteConnectionRepo) UpdateStatus(ctx context.Context, id string, status models.ConnectionStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE connections SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("failed to update connection status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: connection not found", pkg.ErrNotFound)
	}
	return nil
}

// ListByUser, kullanıcının bağlantılarını karşı taraf kullanıcı bilgisiyle döner.
// Karşı taraf: requester ise recipient, recipient ise requester.
func (r *sqliteConnectionRepo) ListByUser(ctx context.Context, userID string) ([]models.ConnectionWithUser, error) {
	query := `
		SELECT c.id, c.status, c.created_at, c.recipient_id,
			u.id, u.name, u.avatar_url, u.headline, u.graduation_year
		FROM connections c
		JOIN users u ON u.id = CASE
			WHEN c.requester_id = ? THEN c.recipient_id
			ELSE c.requester_id
		END
		WHERE c.requester_id = ? OR c.recipient_id = ?
		ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var list []models.ConnectionWithUser
	for rows.Next() {
		var cw models.ConnectionWithUser
		var user models.User
		var recipientID string
		var avatarURL, headline sql.NullString
		var gradYear sql.NullInt64

		if err := rows.Scan(&cw.ID, &cw.Status, &cw.CreatedAt, &recipientID,
			&user.ID, &user.Name, &avatarURL, &headline, &gradYear); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}

		if avatarURL.Valid {
			user.AvatarURL = &avatarURL.String
		}
		if headline.Valid {
			user.Headline = &headline.String
		}
		if gradYear.Valid {
			year := int(gradYear.Int64)
			user.GraduationYear = &year
		}

		cw.OtherUser = &user
		cw.Incoming = recipientID == userID
		list = append(list, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate connections: %w", err)
	}
	return list, nil
}
