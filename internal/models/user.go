package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin-console operator. The portfolio is single-operator,
// but nothing prevents creating more via `devfolio admin create`.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA enrollment
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Needs2FA reports whether a fresh session for this user must pass TOTP
// verification before the admin API opens up. 2FA is opt-in.
func (u *User) Needs2FA() bool {
	return u.TOTPEnabled
}
