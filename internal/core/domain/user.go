package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models a registered actor. Email is the unique identifier used by
// expenses, approvals, and notifications (case-sensitive exact match).
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
