package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User roles. Viewer is the default for unknown values.
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleViewer  = "viewer"
)

// RoleDisplay maps a stored role to its dashboard label.
func RoleDisplay(role string) string {
	switch role {
	case RoleAdmin:
		return "Admin"
	case RoleAnalyst:
		return "Analyst"
	case RoleViewer:
		return "Viewer"
	default:
		return "Unknown"
	}
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	TOTPSecret   string    `json:"-"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// HashPassword generates bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares password with hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
