// Package auth is the session provider: credential lookup against the demo
// directory, signed session tokens and logout revocation.
package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jredh-dev/foodshare/internal/token"
	"github.com/jredh-dev/foodshare/pkg/models"
)

// Session is the result of a successful login.
type Session struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Service handles authentication operations.
type Service struct {
	users   *Directory
	tokens  *token.Service
	revoked Revoker
	maxAge  time.Duration
}

// New creates a new auth service. A nil revoker keeps revocations in memory.
func New(users *Directory, tokens *token.Service, revoked Revoker, maxAge time.Duration) *Service {
	if revoked == nil {
		revoked = NewMemoryRevoker()
	}
	return &Service{users: users, tokens: tokens, revoked: revoked, maxAge: maxAge}
}

// Users exposes the directory the service authenticates against.
func (s *Service) Users() *Directory {
	return s.users
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user := s.users.ByEmail(email)
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, claims, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role), s.maxAge)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	log.Printf("auth: %s logged in (%s)", user.ID, user.Role)
	return &Session{Token: signed, User: user, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// CurrentUser resolves a session token to its user.
// Returns (nil, nil) if there is no valid session.
func (s *Service) CurrentUser(ctx context.Context, tok string) (*models.User, error) {
	if tok == "" {
		return nil, nil
	}
	claims, err := s.tokens.ValidateToken(tok)
	if err != nil {
		return nil, nil
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if revoked {
		return nil, nil
	}
	return s.users.ByID(claims.UserID), nil
}

// Logout revokes a session token. Invalid or expired tokens are ignored.
func (s *Service) Logout(ctx context.Context, tok string) error {
	claims, err := s.tokens.ValidateToken(tok)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	log.Printf("auth: %s logged out", claims.UserID)
	return nil
}
