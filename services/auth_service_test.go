package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/pkg"
)

// fakeUserRepo, UserRepository'nin in-memory test implementasyonu.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // id → user
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return pkg.ErrAlreadyExists
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// fakeResetRepo, PasswordResetRepository'nin in-memory test implementasyonu.
type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.PasswordResetToken // id → token
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*models.PasswordResetToken)}
}

func (f *fakeResetRepo) Create(_ context.Context, token *models.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *token
	f.tokens[token.ID] = &clone
	return nil
}

func (f *fakeResetRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tok := range f.tokens {
		if tok.TokenHash == tokenHash {
			clone := *tok
			return &clone, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeResetRepo) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, id)
	return nil
}

func (f *fakeResetRepo) DeleteByUserID(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, tok := range f.tokens {
		if tok.UserID == userID {
			delete(f.tokens, id)
		}
	}
	return nil
}

func (f *fakeResetRepo) DeleteExpired(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	for id, tok := range f.tokens {
		if tok.Expired(now) {
			delete(f.tokens, id)
		}
	}
	return nil
}

func newTestAuthService(userRepo *fakeUserRepo) AuthService {
	return NewAuthService(userRepo, newFakeResetRepo(), nil, "test-secret", 60)
}

func TestAuthService(t *testing.T) {
	validReq := func() *models.CreateUserRequest {
		return &models.CreateUserRequest{
			Name:     "Zeynep",
			Email:    "zeynep@example.com",
			Password: "sifre12345",
		}
	}

	t.Run("register then login", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())

		reg, err := svc.Register(context.Background(), validReq())
		require.NoError(t, err)
		assert.NotEmpty(t, reg.Token)
		assert.Empty(t, reg.User.PasswordHash)

		login, err := svc.Login(context.Background(), &models.LoginRequest{
			Email:    "zeynep@example.com",
			Password: "sifre12345",
		})
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, login.User.ID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())

		_, err := svc.Register(context.Background(), validReq())
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), validReq())
		assert.ErrorIs(t, err, pkg.ErrAlreadyExists)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())
		_, err := svc.Register(context.Background(), validReq())
		require.NoError(t, err)

		_, err = svc.Login(context.Background(), &models.LoginRequest{
			Email:    "zeynep@example.com",
			Password: "yanlis-sifre",
		})
		assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	})

	t.Run("unknown email is unauthorized not not-found", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())

		_, err := svc.Login(context.Background(), &models.LoginRequest{
			Email:    "yok@example.com",
			Password: "sifre12345",
		})
		assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	})

	t.Run("token validates and carries identity", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())
		reg, err := svc.Register(context.Background(), validReq())
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(reg.Token)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, claims.UserID)
		assert.Equal(t, "Zeynep", claims.Name)
	})

	t.Run("token signed with other secret rejected", func(t *testing.T) {
		repo := newFakeUserRepo()
		svcA := NewAuthService(repo, newFakeResetRepo(), nil, "secret-a", 60)
		svcB := NewAuthService(repo, newFakeResetRepo(), nil, "secret-b", 60)

		reg, err := svcA.Register(context.Background(), validReq())
		require.NoError(t, err)

		_, err = svcB.ValidateAccessToken(reg.Token)
		assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())
		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	})

	t.Run("password reset for unknown email does not leak", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())
		assert.NoError(t, svc.RequestPasswordReset(context.Background(), "yok@example.com"))
	})
}
