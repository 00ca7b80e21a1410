// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her biri tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	LiveKit  LiveKitConfig
	Email    EmailConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/mezun.db)
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret            string // Token imzalama anahtarı — GİZLİ TUTULMALI
	AccessTokenExpiry int    // Dakika cinsinden (varsayılan: 60)
}

// LiveKitConfig, görüntülü/sesli arama medya sağlayıcısı (LiveKit) ayarları.
//
// Sunucu medya trafiğine hiç dokunmaz — sadece signaling relay yapar ve
// client'ların LiveKit'e bağlanması için kısa ömürlü token üretir.
// APIKey/APISecret boşsa RTC token endpoint'i hata döner.
type LiveKitConfig struct {
	URL          string // LiveKit server URL (ör: wss://rtc.mezun.app)
	APIKey       string
	APISecret    string
	TokenTTLMins int // RTC token geçerlilik süresi, dakika (varsayılan: 10)
}

// EmailConfig, Resend ile email gönderim ayarları (şifre sıfırlama).
type EmailConfig struct {
	ResendAPIKey string // Boşsa email gönderimi devre dışı
	FromEmail    string
	AppURL       string // Reset linklerinde kullanılan public frontend URL'i
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyası yoksa hata vermez, sessizce devam eder.
	// Production'da gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	rtcTTL, err := strconv.Atoi(getEnv("RTC_TOKEN_TTL_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RTC_TOKEN_TTL_MINUTES: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/mezun.db"),
		},
		JWT: JWTConfig{
			Secret:            jwtSecret,
			AccessTokenExpiry: accessExpiry,
		},
		LiveKit: LiveKitConfig{
			URL:          getEnv("LIVEKIT_URL", "ws://localhost:7880"),
			APIKey:       getEnv("LIVEKIT_API_KEY", ""),
			APISecret:    getEnv("LIVEKIT_API_SECRET", ""),
			TokenTTLMins: rtcTTL,
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("EMAIL_FROM", "noreply@mezun.app"),
			AppURL:       getEnv("APP_URL", "http://localhost:3000"),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:8080").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
