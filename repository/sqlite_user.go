package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/pkg"
)

// sqliteUserRepo, UserRepository interface'inin SQLite implementasyonu.
type sqliteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo, constructor — interface döner.
func NewSQLiteUserRepo(db *sql.DB) UserRepository {
	return &sqliteUserRepo{db: db}
}

const userColumns = "id, name, email, password_hash, avatar_url, headline, graduation_year, created_at"

// scanUser, tek bir user satırını okur. Nullable kolonlar sql.Null* ile gelir.
func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var avatarURL, headline sql.NullString
	var gradYear sql.NullInt64

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&avatarURL, &headline, &gradYear, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	if headline.Valid {
		u.Headline = &headline.String
	}
	if gradYear.Valid {
		year := int(gradYear.Int64)
		u.GraduationYear = &year
	}
	return &u, nil
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, avatar_url, headline, graduation_year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.AvatarURL, user.Headline, user.GraduationYear, user.CreatedAt,
	)
	if err != nil {
		// UNIQUE constraint ihlali → email zaten kayıtlı
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: email already registered", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user not found", pkg.ErrNotFound)
	}
	return nil
}
