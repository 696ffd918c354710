package domain

import (
	"errors"
	"time"
)

const (
	// UsernameMinLen and UsernameMaxLen bound usernames at creation time.
	UsernameMinLen = 3
	UsernameMaxLen = 50

	// PasswordMinLen is the minimum accepted password length.
	PasswordMinLen = 6
)

// Account lockout thresholds. Reserved for a future lockout policy; no
// component enforces them yet.
const (
	MaxLoginAttempts       = 5
	LockoutDurationMinutes = 15
)

// Identity models an authenticated principal. Identities are never physically
// deleted: deactivation (IsActive = false) is the only removal path, and a
// deactivated identity must never be returned by authentication or session
// restoration lookups.
type Identity struct {
	ID             int64     `json:"id"`
	DisplayName    string    `json:"display_name"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	PasswordDigest string    `json:"-"`
	IsAdmin        bool      `json:"is_admin"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")

// ValidateUsername reports whether a candidate username satisfies the length
// bounds. Uniqueness is enforced by the store, not here.
func ValidateUsername(username string) bool {
	return len(username) >= UsernameMinLen && len(username) <= UsernameMaxLen
}
