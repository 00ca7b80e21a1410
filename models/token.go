package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, JWT token'ın payload'ında taşınan veriler.
//
// Hem HTTP auth middleware'ı hem de WebSocket handler'ı bu claims'i kullanır —
// WS bağlantısının registry'deki kimliği her zaman buradan gelir, asla
// client payload'ından değil.
//
// models paketinde tanımlıdır çünkü birden fazla katman (services, ws,
// middleware) tarafından kullanılır ve circular dependency'yi önler.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
