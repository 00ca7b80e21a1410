// Package main, mezun backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (embedded migration'larla)
//  3. Repository'leri oluştur
//  4. WebSocket Hub'ı başlat, callback'leri bağla
//  5. Service'leri oluştur
//  6. Handler'ları ve middleware'ları oluştur
//  7. Router + CORS + HTTP server
//  8. Graceful shutdown
//
// Global değişken YOK — her şey burada oluşturulup birbirine bağlanır.
// Hub ws paketinde, iş mantığı service katmanında yaşar; hub'ın
// service'lere bağımlı olmaması için signaling ve presence callback'leri
// burada bağlanır (Dependency Inversion).
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/ogulcan/mezun/config"
	"github.com/ogulcan/mezun/database"
	"github.com/ogulcan/mezun/handlers"
	"github.com/ogulcan/mezun/middleware"
	"github.com/ogulcan/mezun/pkg/email"
	"github.com/ogulcan/mezun/pkg/ratelimit"
	"github.com/ogulcan/mezun/repository"
	"github.com/ogulcan/mezun/services"
	"github.com/ogulcan/mezun/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] mezun server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	messageRepo := repository.NewSQLiteMessageRepo(db.Conn)
	connectionRepo := repository.NewSQLiteConnectionRepo(db.Conn)
	notificationRepo := repository.NewSQLiteNotificationRepo(db.Conn)
	resetRepo := repository.NewSQLitePasswordResetRepo(db.Conn)

	// ─── 4. WebSocket Hub ───
	hub := ws.NewHub()

	callLogService := services.NewCallLogService(messageRepo)
	callService := services.NewCallService(hub, callLogService)

	// Signaling callback'i: hub inbound call event'lerini parse eder,
	// iş mantığını callService yürütür. Callback read pump içinde senkron
	// çağrılır, böylece aynı gönderenin mesajları sırayla işlenir.
	hub.OnCallSignal(callService.Forward)

	hub.OnUserConnected(func(userID string) {
		log.Printf("[presence] user %s is now online", userID)
	})
	hub.OnUserDisconnected(func(userID string) {
		log.Printf("[presence] user %s is now offline", userID)
	})

	go hub.Run()

	// ─── 5. Service Layer ───
	emailSender := email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
	if emailSender == nil {
		log.Println("[main] RESEND_API_KEY not set, password reset emails disabled")
	}

	authService := services.NewAuthService(
		userRepo,
		resetRepo,
		emailSender,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
	)
	chatService := services.NewChatService(messageRepo, notificationRepo, userRepo, connectionRepo, hub)
	connectionService := services.NewConnectionService(connectionRepo, notificationRepo, userRepo, hub)
	notificationService := services.NewNotificationService(notificationRepo)
	rtcService := services.NewRTCService(
		cfg.LiveKit.URL,
		cfg.LiveKit.APIKey,
		cfg.LiveKit.APISecret,
		cfg.LiveKit.TokenTTLMins,
	)

	// ─── 6. Handler + Middleware Layer ───
	loginLimiter := ratelimit.NewLoginRateLimiter(5, 2*time.Minute)
	defer loginLimiter.Stop()

	authHandler := handlers.NewAuthHandler(authService, loginLimiter)
	chatHandler := handlers.NewChatHandler(chatService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	rtcHandler := handlers.NewRTCHandler(rtcService)
	wsHandler := ws.NewHandler(hub, authService)

	authMiddleware := middleware.NewAuthMiddleware(authService, userRepo)

	// ─── 7. HTTP Router ───
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"mezun"}`)
	})

	// Auth — public endpoint'ler
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.ResetPassword)

	// Protected endpoint'ler — authMiddleware.Require() sarar
	mux.Handle("GET /api/auth/me", authMiddleware.Require(http.HandlerFunc(authHandler.Me)))

	mux.Handle("POST /api/messages", authMiddleware.Require(http.HandlerFunc(chatHandler.SendMessage)))
	mux.Handle("GET /api/messages/{userID}", authMiddleware.Require(http.HandlerFunc(chatHandler.GetMessages)))
	mux.Handle("GET /api/conversations", authMiddleware.Require(http.HandlerFunc(chatHandler.Conversations)))

	mux.Handle("POST /api/connections", authMiddleware.Require(http.HandlerFunc(connectionHandler.Request)))
	mux.Handle("POST /api/connections/{id}/accept", authMiddleware.Require(http.HandlerFunc(connectionHandler.Accept)))
	mux.Handle("GET /api/connections", authMiddleware.Require(http.HandlerFunc(connectionHandler.List)))

	mux.Handle("GET /api/notifications", authMiddleware.Require(http.HandlerFunc(notificationHandler.List)))
	mux.Handle("POST /api/notifications/read", authMiddleware.Require(http.HandlerFunc(notificationHandler.MarkAllRead)))

	mux.Handle("POST /api/rtc/token", authMiddleware.Require(http.HandlerFunc(rtcHandler.Token)))

	// WebSocket — token query parameter ile authenticate edilir.
	// Tarayıcılar WS upgrade'de custom header gönderemediği için JWT
	// ws://server/ws?token=JWT şeklinde taşınır, handler kendi doğrular.
	mux.HandleFunc("GET /ws", wsHandler.HandleConnection)

	// ─── 8. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Email.AppURL, "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler.Handler(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 9. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce socket'ler kapanır, sonra HTTP server mevcut request'lerin
	// bitmesini bekler.
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
