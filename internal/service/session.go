package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Sagar31658/vidtube/internal/media"
	"github.com/Sagar31658/vidtube/internal/model"
	"github.com/Sagar31658/vidtube/internal/queue"
	"github.com/Sagar31658/vidtube/internal/repository"
	"github.com/Sagar31658/vidtube/internal/token"
	"github.com/Sagar31658/vidtube/internal/utils"
)

// UserStore is the slice of the credential store the session manager
// needs. *repository.UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, id uint64, digest string) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
}

// Uploader stores a media file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, f media.File) (string, error)
}

// Session orchestrates the authentication lifecycle. At most one
// refresh token is valid per account at any time: its digest lives on
// the user row, is replaced on every login and refresh, and is cleared
// on logout.
type Session struct {
	store      UserStore
	tokens     *token.Service
	uploads    Uploader
	bcryptCost int
}

func NewSession(store UserStore, tokens *token.Service, uploads Uploader, bcryptCost int) *Session {
	return &Session{store: store, tokens: tokens, uploads: uploads, bcryptCost: bcryptCost}
}

// RegisterInput carries the registration form. Avatar is mandatory;
// Cover may be nil.
type RegisterInput struct {
	Username string
	FullName string
	Email    string
	Password string
	Avatar   *media.File
	Cover    *media.File
}

// TokenPair bundles a short-lived access token and a long-lived
// refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is what a successful login returns: the token pair plus
// the secrets-excluded account view.
type LoginResult struct {
	TokenPair
	User model.PublicUser
}

// Register validates the form, uploads media, and creates the account.
// The avatar upload must succeed; a cover failure degrades to an empty
// cover image rather than failing the registration.
func (s *Session) Register(ctx context.Context, in RegisterInput) (model.PublicUser, error) {
	var zero model.PublicUser

	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.FullName == "" || in.Email == "" || strings.TrimSpace(in.Password) == "" {
		return zero, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if in.Avatar == nil {
		return zero, fmt.Errorf("%w: avatar is required", ErrValidation)
	}

	if existing, err := s.store.GetByUsernameOrEmail(ctx, in.Username, in.Email); err == nil && existing != nil {
		return zero, ErrAccountExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return zero, fmt.Errorf("lookup existing account: %w", err)
	}

	avatarURL, err := s.uploads.Upload(ctx, *in.Avatar)
	if err != nil || avatarURL == "" {
		return zero, fmt.Errorf("%w: avatar: %v", ErrUploadFailed, err)
	}
	coverURL := ""
	if in.Cover != nil {
		if url, err := s.uploads.Upload(ctx, *in.Cover); err == nil {
			coverURL = url
		} else {
			log.Printf("register: cover upload failed, continuing without: %v", err)
		}
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return zero, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.store.Create(ctx, &model.User{
		Username:     in.Username,
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return zero, ErrAccountExists
		}
		return zero, fmt.Errorf("create account: %w", err)
	}

	// Read-back consistency check: the created row must be loadable.
	created, err := s.store.GetByID(ctx, id)
	if err != nil {
		return zero, ErrCreationFailed
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
			UserID:       created.ID,
			Username:     created.Username,
			FullName:     created.FullName,
			Email:        created.Email,
			Avatar:       created.Avatar,
			RegisteredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return created.Public(), nil
}

// Login verifies credentials and mints a fresh token pair. At least
// one of username/email must be given. Storing the new refresh digest
// replaces any previous one, so an earlier session's refresh token
// stops working immediately.
func (s *Session) Login(ctx context.Context, username, email, password string) (LoginResult, error) {
	var zero LoginResult

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" && email == "" {
		return zero, fmt.Errorf("%w: username or email is required", ErrValidation)
	}

	u, err := s.store.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("lookup account: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return zero, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return zero, err
	}
	return LoginResult{TokenPair: pair, User: u.Public()}, nil
}

// Logout clears the stored refresh digest. Logging out an account with
// no active session is a no-op and succeeds.
func (s *Session) Logout(ctx context.Context, userID uint64) error {
	if err := s.store.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// Refresh exchanges a valid, current refresh token for a new pair and
// rotates the stored digest. A token that verifies but no longer
// matches the stored digest has already been rotated or superseded;
// presenting it again is a replay and is rejected.
func (s *Session) Refresh(ctx context.Context, presented string) (TokenPair, error) {
	var zero TokenPair

	if strings.TrimSpace(presented) == "" {
		return zero, fmt.Errorf("%w: no refresh token", ErrUnauthorized)
	}
	userID, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return zero, fmt.Errorf("%w: unknown account", ErrUnauthorized)
	}
	if !u.RefreshToken.Valid || u.RefreshToken.String != utils.HashRefreshToken(presented) {
		return zero, fmt.Errorf("%w: stale refresh token", ErrUnauthorized)
	}
	return s.issuePair(ctx, u)
}

// ResetPassword verifies the old password and stores a hash of the new
// one. The stored refresh token is left untouched, so existing
// sessions stay valid; callers wanting a harder cut can logout after.
func (s *Session) ResetPassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}
	if newPassword == oldPassword {
		return fmt.Errorf("%w: new password must differ from the old one", ErrValidation)
	}
	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// CurrentUser returns the secrets-excluded view of the account.
func (s *Session) CurrentUser(ctx context.Context, userID uint64) (model.PublicUser, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicUser{}, ErrNotFound
		}
		return model.PublicUser{}, fmt.Errorf("lookup account: %w", err)
	}
	return u.Public(), nil
}

// Channel returns the public profile for a username, for unauthenticated
// channel pages.
func (s *Session) Channel(ctx context.Context, username string) (model.PublicUser, error) {
	if strings.TrimSpace(username) == "" {
		return model.PublicUser{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	u, err := s.store.GetByUsernameOrEmail(ctx, username, "")
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicUser{}, ErrNotFound
		}
		return model.PublicUser{}, fmt.Errorf("lookup account: %w", err)
	}
	return u.Public(), nil
}

// issuePair mints both tokens and persists the refresh digest, which
// invalidates whatever refresh token was stored before.
func (s *Session) issuePair(ctx context.Context, u *model.User) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(u.ID, u.Username, u.Email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(u.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.store.UpdateRefreshToken(ctx, u.ID, utils.HashRefreshToken(refresh)); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
