package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/pkg"
)

// sqlitePasswordResetRepo, PasswordResetRepository'nin SQLite implementasyonu.
type sqlitePasswordResetRepo struct {
	db *sql.DB
}

// NewSQLitePasswordResetRepo, constructor — interface döner.
func NewSQLitePasswordResetRepo(db *sql.DB) PasswordResetRepository {
	return &sqlitePasswordResetRepo{db: db}
}

func (r *sqlitePasswordResetRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *sqlitePasswordResetRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, created_at
		 FROM password_reset_tokens WHERE token_hash = ?`, tokenHash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: reset token not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &t, nil
}

func (r *sqlitePasswordResetRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM password_reset_tokens WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}

func (r *sqlitePasswordResetRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM password_reset_tokens WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete user reset tokens: %w", err)
	}
	return nil
}

func (r *sqlitePasswordResetRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM password_reset_tokens WHERE expires_at < ?", time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return nil
}
