package models

import (
	"strings"
	"time"
)

// DefaultRole назначается пользователям при регистрации.
const DefaultRole = "Inventory Manager"

// User описывает учетную запись пользователя.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterInput описывает запрос на регистрацию.
type RegisterInput struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// LoginInput описывает запрос на вход.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NormalizeEmail приводит адрес к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize обрезает пробелы в имени и приводит адрес к виду хранения.
func (in *RegisterInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = NormalizeEmail(in.Email)
}
