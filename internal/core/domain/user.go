package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Profile holds the attributes attached to an identity at registration.
type Profile struct {
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Phone string `json:"phone,omitempty"`
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// OwnerProfile returns the display subset of the user's identity.
func (u *User) OwnerProfile() OwnerProfile {
	return OwnerProfile{Name: u.Profile.Name, Email: u.Email, CPF: u.Profile.CPF}
}

// Session is the verified caller context passed explicitly to every core
// operation. It is built from a validated token; the role it carries is a
// hint, the stored identity is authoritative.
type Session struct {
	UserID    string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Authenticated reports whether the session identifies a caller.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}
