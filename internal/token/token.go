// Package token mints and verifies the signed access/refresh token
// pair. Access and refresh tokens are both HS256 JWTs but are signed
// with distinct secrets, so compromise of one cannot forge the other.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalid is returned for any verification failure: bad signature,
// malformed payload, or expiry. Callers deliberately cannot tell an
// expired token from a forged one; both must be treated as
// unauthorized and answered with a refresh or a fresh login.
var ErrInvalid = errors.New("invalid token")

// Config carries the signing secrets and validity windows. It is
// injected at construction so nothing in this package reads process
// environment directly.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// AccessClaims is the access-token payload: subject plus a little
// identity for lightweight display, so most requests need no user
// lookup.
type AccessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserID parses the subject claim back into an account id.
func (c *AccessClaims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

type refreshClaims struct {
	jwt.RegisteredClaims
}

// Service issues and verifies both token kinds.
type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// IssueAccess signs a short-lived access token for the user.
func (s *Service) IssueAccess(userID uint64, username, email string) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
		Email:    email,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefresh signs a long-lived refresh token carrying only the
// account id. The jti claim makes every issued token distinct even
// within the same second, which the rotation protocol relies on.
func (s *Service) IssueRefresh(userID uint64) (string, error) {
	now := time.Now().UTC()
	claims := refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates signature and expiry against the access
// secret and returns the claims.
func (s *Service) VerifyAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(raw, claims, s.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh validates signature and expiry against the refresh
// secret and returns the account id from the subject claim.
func (s *Service) VerifyRefresh(raw string) (uint64, error) {
	claims := &refreshClaims{}
	if err := s.parse(raw, claims, s.cfg.RefreshSecret); err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalid)
	}
	return id, nil
}

func (s *Service) parse(raw string, claims jwt.Claims, secret string) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !tok.Valid {
		return ErrInvalid
	}
	return nil
}
