package model

import (
	"database/sql"
	"time"
)

// User represents a row in the `users` table. PasswordHash and
// RefreshToken are credential fields and must never leave the auth
// core; use Public() for anything that reaches a client.
//
// RefreshToken stores the SHA-256 hex digest of the most recently
// issued refresh token. NULL means the account has no active session.
type User struct {
	ID           uint64         // users.id
	Username     string         // users.username (stored lowercase)
	FullName     string         // users.full_name
	Email        string         // users.email (stored lowercase)
	PasswordHash string         // users.password_hash
	Avatar       string         // users.avatar (object storage URL)
	CoverImage   string         // users.cover_image (may be empty)
	RefreshToken sql.NullString // users.refresh_token (digest, nullable)
	CreatedAt    time.Time      // users.created_at
	UpdatedAt    time.Time      // users.updated_at
}

// PublicUser is the projection of User that is safe to return to
// callers outside the auth core: no password hash, no refresh token.
type PublicUser struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public returns the secrets-excluded view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
	}
}
