package user

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
	ErrInvalidID  = errors.New("invalid user id")
)

// NormalizeEmail is the canonical form every store writes and looks up.
// Seeding and login must agree on it or an account becomes unreachable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type CreateUserRequest struct {
	Name     string `form:"name" json:"name" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=8"`
}

type UpdateUserRequest struct {
	UserID string `form:"userId" json:"userId" binding:"required"`
	Name   string `form:"name" json:"name" binding:"required"`
	Email  string `form:"email" json:"email" binding:"required,email"`
}

type DeleteUserRequest struct {
	UserID string `form:"userId" json:"userId" binding:"required"`
}
