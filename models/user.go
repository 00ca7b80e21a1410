// Package models, uygulamanın domain modellerini tanımlar.
//
// Model, veritabanındaki bir tablonun Go karşılığıdır ve aynı zamanda
// API'den gelen/giden verilerin şeklini belirler. `json:"..."` tag'leri
// struct field'larının JSON'a nasıl serialize edileceğini söyler.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// User, bir mezun kullanıcısını temsil eder.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // json:"-" → API response'a DAHİL ETME
	AvatarURL      *string   `json:"avatar_url"`      // Nullable — henüz yüklenmemiş olabilir
	Headline       *string   `json:"headline"`        // Kısa profil başlığı ("SWE @ ...")
	GraduationYear *int      `json:"graduation_year"` // Mezuniyet yılı
	CreatedAt      time.Time `json:"created_at"`
}

// PublicProfile, başka kullanıcılara gösterilen alanları döner.
// Email dışarı sızmaz — sadece kullanıcının kendisi görür.
func (u *User) PublicProfile() *User {
	pub := *u
	pub.Email = ""
	return &pub
}

// CreateUserRequest, kayıt olurken frontend'den gelen veri.
// Password alınır, hash'leme service katmanında yapılır.
type CreateUserRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	GraduationYear *int   `json:"graduation_year,omitempty"`
}

// Validate, CreateUserRequest'in geçerli olup olmadığını kontrol eder.
func (r *CreateUserRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(r.Name) > 64 {
		return fmt.Errorf("name must be at most 64 characters")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if r.GraduationYear != nil && (*r.GraduationYear < 1900 || *r.GraduationYear > 2100) {
		return fmt.Errorf("graduation_year is out of range")
	}
	return nil
}

// LoginRequest, giriş isteği.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse, başarılı register/login yanıtı.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
