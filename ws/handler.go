package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ogulcan/mezun/models"
)

// TokenValidator, WebSocket handler'ın JWT doğrulaması için kullandığı
// minimal interface. services.AuthService bu interface'i implicit karşılar;
// ws → services import'u olmadığından circular dependency oluşmaz.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// upgrader, HTTP bağlantısını WebSocket bağlantısına yükseltir.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin: Production'da domain kontrolü yapılmalı.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
}

// NewHandler, yeni bir WebSocket handler oluşturur.
func NewHandler(hub *Hub, tokenValidator TokenValidator) *Handler {
	return &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı
// registry'ye kaydeder.
//
// WebSocket upgrade sırasında tarayıcılar custom header gönderemez,
// bu yüzden JWT query parameter olarak gelir:
//
//	ws://server/ws?token=JWT_TOKEN
//
// Token yoksa veya geçersizse bağlantı reddedilir — registry'ye kayıt
// oluşmaz. Registry'deki kimlik HER ZAMAN doğrulanmış claims'ten gelir.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokenValidator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user %s: %v", claims.UserID, err)
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.UserID,
		send:   make(chan []byte, sendBufferSize),
	}

	h.hub.register <- client

	// WritePump ayrı goroutine'de; ReadPump bu goroutine'de bağlantı
	// kapanana kadar bloklar — handler erken dönmemeli.
	go client.WritePump()
	client.ReadPump()
}
