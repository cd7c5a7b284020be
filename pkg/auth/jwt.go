// Package auth issues and validates the stateless bearer tokens and hashes
// passwords.
//
// Access tokens are short-lived. Refresh tokens rotate: every refresh issues
// a new pair and invalidates the previous refresh token, tracked by JTI in
// the RefreshStore.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Config holds the signing secret and token lifetimes. Built once at boot
// from config.TokenSection() and passed in explicitly.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenPair is what login and refresh hand back to clients.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Manager issues, validates, and rotates tokens.
type Manager struct {
	cfg   Config
	store RefreshStore
	now   func() time.Time
}

func NewManager(cfg Config, store RefreshStore) *Manager {
	return &Manager{cfg: cfg, store: store, now: time.Now}
}

// Issue creates a fresh access+refresh pair and records the refresh JTI as
// the only valid one for the user.
func (m *Manager) Issue(userID uint, role string) (TokenPair, error) {
	now := m.now()

	access, err := m.sign(Claims{
		UserID:    userID,
		Role:      role,
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign access token: %w", err)
	}

	jti := uuid.NewString()
	refresh, err := m.sign(Claims{
		UserID:    userID,
		Role:      role,
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.RefreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign refresh token: %w", err)
	}

	if err := m.store.SetCurrent(userID, jti, m.cfg.RefreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("auth: record refresh token: %w", err)
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh validates a refresh token, checks that it is still the current one
// for the user, and rotates the pair. The old refresh token is invalid after
// this call returns.
func (m *Manager) Refresh(token string) (TokenPair, error) {
	claims, err := m.Validate(token)
	if err != nil {
		return TokenPair{}, apperr.Auth("invalid refresh token")
	}
	if claims.TokenType != TypeRefresh {
		return TokenPair{}, apperr.Auth("not a refresh token")
	}

	current, ok := m.store.Current(claims.UserID)
	if !ok || current != claims.ID {
		return TokenPair{}, apperr.Auth("refresh token has been rotated")
	}

	return m.Issue(claims.UserID, claims.Role)
}

// Revoke drops the stored refresh JTI so no refresh token works until the
// next login. Used on password change.
func (m *Manager) Revoke(userID uint) error {
	return m.store.Clear(userID)
}

// Validate parses and validates a JWT string of either type.
func (m *Manager) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return m.cfg.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (m *Manager) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
