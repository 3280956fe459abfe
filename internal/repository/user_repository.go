package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Sagar31658/vidtube/internal/model"
)

const userColumns = "id,username,full_name,email,password_hash,avatar,cover_image,refresh_token,created_at,updated_at"

// UserRepo persists user accounts in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a new account and returns its id. Username and email
// are normalized to lowercase so uniqueness is case-insensitive.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, full_name, email, password_hash, avatar, cover_image) VALUES (?,?,?,?,?,?)",
		strings.ToLower(strings.TrimSpace(u.Username)),
		strings.TrimSpace(u.FullName),
		strings.ToLower(strings.TrimSpace(u.Email)),
		u.PasswordHash, u.Avatar, u.CoverImage)
	if err != nil {
		// MySQL 1062: duplicate entry for a unique key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrAccountExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsernameOrEmail fetches the account matching either identifier,
// case-insensitively. Empty identifiers never match.
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE (username=? AND ?<>'') OR (email=? AND ?<>'') LIMIT 1",
		username, username, email, email).
		Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash,
			&u.Avatar, &u.CoverImage, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id).
		Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash,
			&u.Avatar, &u.CoverImage, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateRefreshToken stores the digest of the account's current
// refresh token; an empty digest clears it (logout). This is a partial
// update of a session-derived field, so no other validation runs.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, id uint64, digest string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=NULLIF(?,''), updated_at=NOW() WHERE id=?",
		digest, id)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?",
		passwordHash, id)
	return err
}
