// Package services — AuthService: kayıt, giriş, token doğrulama ve
// şifre sıfırlama iş mantığı.
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/pkg"
	"github.com/ogulcan/mezun/pkg/email"
	"github.com/ogulcan/mezun/repository"
)

// resetTokenTTL, şifre sıfırlama token'ının geçerlilik süresi.
const resetTokenTTL = 1 * time.Hour

// AuthService, kimlik doğrulama operasyonları için iş mantığı interface'i.
type AuthService interface {
	// Register, yeni kullanıcı oluşturur ve access token döner.
	Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error)

	// Login, email + şifre ile giriş yapar.
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)

	// ValidateAccessToken, JWT'yi doğrular ve claims'i döner.
	// Hem HTTP middleware hem WebSocket handler kullanır.
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)

	// RequestPasswordReset, kullanıcıya sıfırlama linki emaili gönderir.
	// Email kayıtlı değilse de nil döner — hesap varlığı sızdırılmaz.
	RequestPasswordReset(ctx context.Context, emailAddr string) error

	// ResetPassword, geçerli bir reset token ile yeni şifre belirler.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// authService, AuthService'in private implementasyonu.
type authService struct {
	userRepo    repository.UserRepository
	resetRepo   repository.PasswordResetRepository
	emailSender email.EmailSender // nil olabilir — email devre dışı
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// NewAuthService, constructor.
// emailSender nil verilebilir — bu durumda şifre sıfırlama emaili gönderilmez.
func NewAuthService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	emailSender email.EmailSender,
	jwtSecret string,
	tokenExpiryMinutes int,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		emailSender: emailSender,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: time.Duration(tokenExpiryMinutes) * time.Minute,
	}
}

func (s *authService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   string(hash),
		GraduationYear: req.GraduationYear,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// "not found" dışarıya "invalid credentials" olarak gider —
		// hangi email'in kayıtlı olduğu sızdırılmaz.
		return nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &models.AuthResponse{Token: token, User: user}, nil
}

// generateAccessToken, HS256 imzalı access token üretir.
func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	// Fırsat temizliği: süresi dolmuş token'ları sil.
	if err := s.resetRepo.DeleteExpired(ctx); err != nil {
		log.Printf("[auth] failed to clean expired reset tokens: %v", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		// Hesap varlığını sızdırmamak için her durumda başarı döner.
		return nil
	}

	// Eski token'ları geçersiz kıl — her kullanıcı için tek aktif token.
	if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}

	// 32 byte random token — DB'de sadece SHA256 hash'i saklanır.
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	plaintext := hex.EncodeToString(raw)
	hash := sha256.Sum256([]byte(plaintext))

	record := &models.PasswordResetToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenHash: hex.EncodeToString(hash[:]),
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.resetRepo.Create(ctx, record); err != nil {
		return err
	}

	if s.emailSender == nil {
		log.Printf("[auth] email sender not configured, skipping reset email for user %s", user.ID)
		return nil
	}

	if err := s.emailSender.SendPasswordReset(ctx, user.Email, plaintext); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", pkg.ErrBadRequest)
	}

	hash := sha256.Sum256([]byte(token))
	record, err := s.resetRepo.GetByTokenHash(ctx, hex.EncodeToString(hash[:]))
	if err != nil {
		return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrUnauthorized)
	}

	if record.Expired(time.Now().UTC()) {
		_ = s.resetRepo.DeleteByID(ctx, record.ID)
		return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrUnauthorized)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, record.UserID, string(newHash)); err != nil {
		return err
	}

	// Token tek kullanımlık — başarılı reset sonrası silinir.
	if err := s.resetRepo.DeleteByID(ctx, record.ID); err != nil {
		log.Printf("[auth] failed to delete used reset token %s: %v", record.ID, err)
	}
	return nil
}
